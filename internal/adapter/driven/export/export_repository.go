package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/shopspring/decimal"
)

const (
	mimeCSV  = "text/csv;charset=utf-8"
	mimeJSON = "application/json"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeHTML = "text/html;charset=utf-8"
	mimePDF  = "application/pdf"

	utf8BOM = "\uFEFF"
)

var _ repository.ExportRepository = (*ExportRepositoryImpl)(nil)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	locale      Locale
	spreadsheet repository.SpreadsheetWriter
	now         func() time.Time
}

type Option func(*ExportRepositoryImpl)

func WithLocale(l Locale) Option {
	return func(r *ExportRepositoryImpl) { r.locale = l }
}

// WithSpreadsheetWriter replaces the xlsx writer. A nil writer makes
// ExportToExcel answer with CSV.
func WithSpreadsheetWriter(w repository.SpreadsheetWriter) Option {
	return func(r *ExportRepositoryImpl) { r.spreadsheet = w }
}

// WithClock fixes the generation timestamp, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *ExportRepositoryImpl) { r.now = now }
}

// NewExportRepository cria o exportador com locale pt-BR e excelize.
func NewExportRepository(opts ...Option) *ExportRepositoryImpl {
	r := &ExportRepositoryImpl{
		locale:      DefaultLocale(),
		spreadsheet: NewExcelizeWriter(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ExportRepositoryImpl) FormatValue(value any, tag entity.FormatTag) string {
	return r.locale.Format(value, tag)
}

// ExportData escolhe o serializador pelo formato da requisição.
func (r *ExportRepositoryImpl) ExportData(req entity.ExportRequest) entity.ExportResult {
	switch req.Format {
	case entity.FormatCSV:
		return r.ExportToCSV(req)
	case entity.FormatJSON:
		return r.ExportToJSON(req)
	case entity.FormatXLSX:
		return r.ExportToExcel(req)
	case entity.FormatPDF:
		return r.ExportToPDF(req)
	case entity.FormatPDFDocument:
		return r.ExportToPDFDocument(req)
	default:
		return entity.Failed(req.Format, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, req.Format))
	}
}

func (r *ExportRepositoryImpl) ExportToCSV(req entity.ExportRequest) entity.ExportResult {
	var b strings.Builder
	b.WriteString(utf8BOM)

	header := make([]string, len(req.Columns))
	for i, col := range req.Columns {
		header[i] = quoteCSV(col.Label)
	}
	b.WriteString(strings.Join(header, ","))

	cells := make([]string, len(req.Columns))
	for _, row := range req.Data {
		for i, col := range req.Columns {
			cells[i] = quoteCSV(r.locale.Format(row[col.Key], col.Format))
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(cells, ","))
	}

	return entity.ExportResult{
		Success:  true,
		Format:   entity.FormatCSV,
		Filename: outputFilename(req.Filename, "csv"),
		MimeType: mimeCSV,
		Blob:     []byte(b.String()),
	}
}

// quoteCSV always quotes so spreadsheet apps never reinterpret a cell.
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type jsonEnvelope struct {
	Metadata jsonMetadata `json:"metadata"`
	Data     []entity.Row `json:"data"`
	Summary  jsonSummary  `json:"summary"`
}

type jsonMetadata struct {
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle,omitempty"`
	Organization string            `json:"organization,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	GeneratedBy  string            `json:"generatedBy,omitempty"`
	DateRange    *entity.DateRange `json:"dateRange,omitempty"`
	Columns      []entity.Column   `json:"columns"`
}

type jsonSummary struct {
	TotalRecords int `json:"totalRecords"`
}

// ExportToJSON keeps row values raw; only the envelope is added.
func (r *ExportRepositoryImpl) ExportToJSON(req entity.ExportRequest) entity.ExportResult {
	env := jsonEnvelope{
		Metadata: jsonMetadata{
			Title:        titleOrDefault(req.Title),
			Subtitle:     req.Subtitle,
			Organization: req.OrganizationName,
			GeneratedAt:  r.now().UTC(),
			GeneratedBy:  req.GeneratedBy,
			DateRange:    req.DateRange,
			Columns:      req.Columns,
		},
		Data:    req.Data,
		Summary: jsonSummary{TotalRecords: len(req.Data)},
	}
	if env.Data == nil {
		env.Data = []entity.Row{}
	}
	if env.Metadata.Columns == nil {
		env.Metadata.Columns = []entity.Column{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return entity.Failed(entity.FormatJSON, fmt.Errorf("error encoding JSON: %w", err))
	}

	return entity.ExportResult{
		Success:  true,
		Format:   entity.FormatJSON,
		Filename: outputFilename(req.Filename, "json"),
		MimeType: mimeJSON,
		Blob:     buf.Bytes(),
	}
}

// ExportToExcel falls back to CSV when no spreadsheet writer is available.
// The fallback is a successful result with a .csv filename.
func (r *ExportRepositoryImpl) ExportToExcel(req entity.ExportRequest) entity.ExportResult {
	if r.spreadsheet == nil {
		return r.ExportToCSV(req)
	}

	blob, err := r.spreadsheet.WriteWorkbook(r.worksheet(req))
	if errors.Is(err, types.ErrSpreadsheetUnavailable) {
		return r.ExportToCSV(req)
	}
	if err != nil {
		return entity.Failed(entity.FormatXLSX, fmt.Errorf("error writing workbook: %w", err))
	}

	return entity.ExportResult{
		Success:  true,
		Format:   entity.FormatXLSX,
		Filename: outputFilename(req.Filename, "xlsx"),
		MimeType: mimeXLSX,
		Blob:     blob,
	}
}

// worksheet keeps numeric columns numeric so spreadsheet formulas work.
// Currency cells carry the decimal amount rather than minor units.
func (r *ExportRepositoryImpl) worksheet(req entity.ExportRequest) entity.Worksheet {
	sheet := entity.Worksheet{
		Name:    req.Title,
		Title:   req.Title,
		Columns: req.Columns,
		Rows:    make([][]any, 0, len(req.Data)),
	}
	for _, row := range req.Data {
		cells := make([]any, len(req.Columns))
		for i, col := range req.Columns {
			cells[i] = r.cellValue(row[col.Key], col.Format)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet
}

func (r *ExportRepositoryImpl) cellValue(value any, tag entity.FormatTag) any {
	if value == nil {
		return nil
	}
	if tag.Numeric() {
		if d, ok := toDecimal(value); ok {
			if tag == entity.TagCurrency {
				d = d.Shift(-2)
			}
			return decimalFloat(d)
		}
	}
	return r.locale.Format(value, tag)
}

func decimalFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// ExportToPDF produz um documento HTML pronto para impressão.
func (r *ExportRepositoryImpl) ExportToPDF(req entity.ExportRequest) entity.ExportResult {
	blob, err := r.renderHTMLReport(req)
	if err != nil {
		return entity.Failed(entity.FormatPDF, err)
	}
	return entity.ExportResult{
		Success:  true,
		Format:   entity.FormatPDF,
		Filename: outputFilename(req.Filename, "html"),
		MimeType: mimeHTML,
		Blob:     blob,
	}
}

func (r *ExportRepositoryImpl) ExportToPDFDocument(req entity.ExportRequest) entity.ExportResult {
	blob, err := r.renderPDFDocument(req)
	if err != nil {
		return entity.Failed(entity.FormatPDFDocument, err)
	}
	return entity.ExportResult{
		Success:  true,
		Format:   entity.FormatPDFDocument,
		Filename: outputFilename(req.Filename, "pdf"),
		MimeType: mimePDF,
		Blob:     blob,
	}
}

// outputFilename derives "<stem>.<ext>" from a caller-supplied name,
// dropping any directory part and a trailing extension.
func outputFilename(name, ext string) string {
	stem := filepath.Base(strings.TrimSpace(name))
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "export"
	}
	return stem + "." + ext
}
