package export

import (
	"bytes"
	"fmt"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
)

// landscapeColumns is the widest table that still fits a portrait page.
const landscapeColumns = 6

var (
	headerColor     = [3]int{31, 78, 121}
	headerTextColor = [3]int{255, 255, 255}
	bodyTextColor   = [3]int{34, 34, 34}
	stripeColor     = [3]int{245, 247, 250}
	mutedTextColor  = [3]int{110, 110, 110}
)

// renderPDFDocument draws the same report as renderHTMLReport with gofpdf.
func (r *ExportRepositoryImpl) renderPDFDocument(req entity.ExportRequest) ([]byte, error) {
	view := r.reportView(req)

	orientation := "P"
	if view.Orientation == "landscape" {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetCreationDate(r.now())
	pdf.SetTitle(view.Title, true)
	pdf.SetAutoPageBreak(true, 18)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 7)
		pdf.SetTextColor(mutedTextColor[0], mutedTextColor[1], mutedTextColor[2])
		pdf.CellFormat(0, 5, tr(view.Footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	if view.Organization != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.CellFormat(0, 6, tr(view.Organization), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 9, tr(view.Title), "", 1, "L", false, 0, "")
	if view.Subtitle != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(mutedTextColor[0], mutedTextColor[1], mutedTextColor[2])
		pdf.CellFormat(0, 6, tr(view.Subtitle), "", 1, "L", false, 0, "")
	}

	meta := fmt.Sprintf("Gerado em %s", view.GeneratedAt)
	if view.GeneratedBy != "" {
		meta += " por " + view.GeneratedBy
	}
	if view.Period != "" {
		meta = "Período: " + view.Period + " - " + meta
	}
	meta += fmt.Sprintf(" - %d registro(s)", view.Count)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(mutedTextColor[0], mutedTextColor[1], mutedTextColor[2])
	pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")

	pdf.SetDrawColor(headerColor[0], headerColor[1], headerColor[2])
	y := pdf.GetY() + 1
	pdf.Line(left, y, pageWidth-right, y)
	pdf.Ln(4)

	widths := columnWidths(req.Columns, usable)

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		for i, h := range view.Headers {
			pdf.CellFormat(widths[i], 7, tr(h.Text), "", 0, pdfAlign(h.Align), true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	pdf.SetFont("Arial", "", 8)
	for n, cells := range view.Rows {
		if pdf.GetY()+6 > pageHeight-bottom-18 {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Arial", "", 8)
		}
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, tr(fitText(pdf, cell.Text, widths[i])), "", 0, pdfAlign(cell.Align), n%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths scales the pixel widths to the printable width. Columns
// without a width share the average of the others.
func columnWidths(cols []entity.Column, usable float64) []float64 {
	widths := make([]float64, len(cols))
	if len(cols) == 0 {
		return widths
	}
	var total, sized float64
	for _, c := range cols {
		if c.Width > 0 {
			total += float64(c.Width)
			sized++
		}
	}
	fallback := 100.0
	if sized > 0 {
		fallback = total / sized
	}
	total = 0
	for i, c := range cols {
		widths[i] = float64(c.Width)
		if c.Width <= 0 {
			widths[i] = fallback
		}
		total += widths[i]
	}
	for i := range widths {
		widths[i] = widths[i] / total * usable
	}
	return widths
}

// fitText truncates s with an ellipsis so it fits in width.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func pdfAlign(align string) string {
	switch align {
	case string(entity.AlignRight):
		return "R"
	case string(entity.AlignCenter):
		return "C"
	default:
		return "L"
	}
}
