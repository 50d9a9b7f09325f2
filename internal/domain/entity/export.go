package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportFormat is the target representation of an export.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatXLSX ExportFormat = "xlsx"
	// FormatPDF produces print-ready HTML; rasterizing it is left to an external renderer.
	FormatPDF ExportFormat = "pdf"
	// FormatPDFDocument produces a PDF binary drawn with gofpdf.
	FormatPDFDocument ExportFormat = "pdf-document"
)

// Known reports whether the export dispatch handles f.
func (f ExportFormat) Known() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatPDF, FormatPDFDocument:
		return true
	}
	return false
}

// FormatTag fixes how every cell of a column is rendered.
type FormatTag string

const (
	TagText       FormatTag = "text"
	TagNumber     FormatTag = "number"
	TagCurrency   FormatTag = "currency"
	TagDate       FormatTag = "date"
	TagDateTime   FormatTag = "datetime"
	TagPercentage FormatTag = "percentage"
)

// Numeric reports whether the tag keeps cells numeric in spreadsheets.
func (t FormatTag) Numeric() bool {
	return t == TagNumber || t == TagCurrency || t == TagPercentage
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Column describes one exported column.
type Column struct {
	Key    string    `json:"key" yaml:"key"`
	Label  string    `json:"label" yaml:"label"`
	Width  int       `json:"width,omitempty" yaml:"width"`
	Format FormatTag `json:"format,omitempty" yaml:"format"`
	Align  Align     `json:"align,omitempty" yaml:"align"`
}

// Row is one record keyed by column key.
type Row map[string]any

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DateLayouts are tried in order when a date arrives as a string.
var DateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses s with the first matching entry of DateLayouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON accepts the bounds in any of DateLayouts, so plain
// "2024-01-31" dates work as well as RFC 3339 timestamps.
func (d *DateRange) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, ok := ParseDate(raw.Start)
	if !ok {
		return fmt.Errorf("invalid dateRange start %q", raw.Start)
	}
	end, ok := ParseDate(raw.End)
	if !ok {
		return fmt.Errorf("invalid dateRange end %q", raw.End)
	}
	if end.Before(start) {
		return fmt.Errorf("dateRange end %q is before start %q", raw.End, raw.Start)
	}

	d.Start, d.End = start, end
	return nil
}

// ExportRequest is a single-shot export of rows under a fixed column schema.
type ExportRequest struct {
	Format           ExportFormat `json:"format"`
	Filename         string       `json:"filename"`
	Title            string       `json:"title,omitempty"`
	Subtitle         string       `json:"subtitle,omitempty"`
	OrganizationName string       `json:"organizationName,omitempty"`
	GeneratedBy      string       `json:"generatedBy,omitempty"`
	FooterText       string       `json:"footerText,omitempty"`
	DateRange        *DateRange   `json:"dateRange,omitempty"`
	Columns          []Column     `json:"columns"`
	Data             []Row        `json:"data"`
}

// ExportResult is returned by every export operation instead of an error.
// Format and Filename describe what was actually produced.
type ExportResult struct {
	Success  bool         `json:"success"`
	Format   ExportFormat `json:"format,omitempty"`
	Filename string       `json:"filename,omitempty"`
	MimeType string       `json:"mimeType,omitempty"`
	Blob     []byte       `json:"-"`
	Error    string       `json:"error,omitempty"`
}

// Failed builds an unsuccessful result.
func Failed(format ExportFormat, err error) ExportResult {
	return ExportResult{Success: false, Format: format, Error: err.Error()}
}

// Worksheet is the typed grid handed to a spreadsheet writer.
// Cells keep their Go type: float64 for numeric columns, string otherwise.
type Worksheet struct {
	Name    string
	Title   string
	Columns []Column
	Rows    [][]any
}
