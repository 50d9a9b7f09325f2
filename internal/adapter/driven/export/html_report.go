package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
)

const defaultFooter = "Documento gerado automaticamente. Os valores refletem os dados disponíveis no momento da geração."

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4 {{.Orientation}}; margin: 15mm; }
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #222; }
  header { border-bottom: 2px solid #1f4e79; margin-bottom: 12px; padding-bottom: 8px; }
  header .org { font-size: 13px; font-weight: bold; color: #1f4e79; }
  header h1 { font-size: 18px; margin: 4px 0; }
  header h2 { font-size: 13px; font-weight: normal; color: #555; margin: 0; }
  .meta { color: #666; font-size: 10px; margin-bottom: 8px; }
  table { border-collapse: collapse; width: 100%; }
  th { background: #1f4e79; color: #fff; padding: 6px; font-weight: bold; }
  td { border-bottom: 1px solid #ddd; padding: 5px 6px; }
  tr:nth-child(even) td { background: #f5f7fa; }
  footer { margin-top: 16px; font-size: 9px; color: #888; border-top: 1px solid #ddd; padding-top: 6px; }
</style>
</head>
<body>
<header>
  {{- if .Organization}}<div class="org">{{.Organization}}</div>{{end}}
  <h1>{{.Title}}</h1>
  {{- if .Subtitle}}<h2>{{.Subtitle}}</h2>{{end}}
</header>
<div class="meta">
  {{- if .Period}}Período: {{.Period}} · {{end}}Gerado em {{.GeneratedAt}}{{if .GeneratedBy}} por {{.GeneratedBy}}{{end}} · {{.Count}} registro(s)
</div>
<table>
<thead>
<tr>{{range .Headers}}<th style="text-align:{{.Align}}{{if .Width}};width:{{.Width}}px{{end}}">{{.Text}}</th>{{end}}</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td style="text-align:{{.Align}}">{{.Text}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
<footer>{{.Footer}}</footer>
</body>
</html>
`))

type reportCell struct {
	Text  string
	Align string
	Width int
}

type reportView struct {
	Lang         string
	Orientation  string
	Title        string
	Subtitle     string
	Organization string
	Period       string
	GeneratedAt  string
	GeneratedBy  string
	Count        int
	Headers      []reportCell
	Rows         [][]reportCell
	Footer       string
}

// renderHTMLReport builds the printable report. Cells use the same display
// strings as CSV.
func (r *ExportRepositoryImpl) renderHTMLReport(req entity.ExportRequest) ([]byte, error) {
	view := r.reportView(req)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("error rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ExportRepositoryImpl) reportView(req entity.ExportRequest) reportView {
	view := reportView{
		Lang:         r.locale.Tag.String(),
		Orientation:  "portrait",
		Title:        titleOrDefault(req.Title),
		Subtitle:     req.Subtitle,
		Organization: req.OrganizationName,
		GeneratedAt:  r.now().In(r.locale.Location).Format(r.locale.DateTimeLayout),
		GeneratedBy:  req.GeneratedBy,
		Count:        len(req.Data),
		Footer:       req.FooterText,
	}
	if len(req.Columns) > landscapeColumns {
		view.Orientation = "landscape"
	}
	if view.Footer == "" {
		view.Footer = defaultFooter
	}
	if req.DateRange != nil {
		view.Period = r.formatPeriod(*req.DateRange)
	}

	for _, col := range req.Columns {
		view.Headers = append(view.Headers, reportCell{Text: col.Label, Align: cssAlign(col), Width: col.Width})
	}
	for _, row := range req.Data {
		cells := make([]reportCell, len(req.Columns))
		for i, col := range req.Columns {
			cells[i] = reportCell{Text: r.locale.Format(row[col.Key], col.Format), Align: cssAlign(col)}
		}
		view.Rows = append(view.Rows, cells)
	}
	return view
}

func (r *ExportRepositoryImpl) formatPeriod(dr entity.DateRange) string {
	return r.locale.Format(dr.Start, entity.TagDate) + " a " + r.locale.Format(dr.End, entity.TagDate)
}

// cssAlign right-aligns numeric columns unless told otherwise.
func cssAlign(col entity.Column) string {
	switch col.Align {
	case entity.AlignLeft, entity.AlignCenter, entity.AlignRight:
		return string(col.Align)
	}
	if col.Format.Numeric() {
		return string(entity.AlignRight)
	}
	return string(entity.AlignLeft)
}

func titleOrDefault(title string) string {
	if title == "" {
		return defaultSheetName
	}
	return title
}
