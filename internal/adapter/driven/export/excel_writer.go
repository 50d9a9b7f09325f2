package export

import (
	"fmt"
	"strings"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheetName = "Relatório"
	// excel column width is measured in characters of the default font.
	pixelsPerChar = 7.0

	numFmtThousands2 = 4  // #,##0.00
	numFmtPercent2   = 10 // 0.00%
)

// ExcelizeWriter writes worksheets as xlsx workbooks.
type ExcelizeWriter struct{}

func NewExcelizeWriter() *ExcelizeWriter {
	return &ExcelizeWriter{}
}

// WriteWorkbook lays out an optional merged title row followed by a blank
// spacer, the header row, then one row per record.
func (w *ExcelizeWriter) WriteWorkbook(sheet entity.Worksheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := sheetName(sheet.Name)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	row := 1
	if sheet.Title != "" {
		if err := f.SetCellValue(name, "A1", sheet.Title); err != nil {
			return nil, fmt.Errorf("error writing title: %w", err)
		}
		if err := f.SetCellStyle(name, "A1", "A1", styles.title); err != nil {
			return nil, fmt.Errorf("error styling title: %w", err)
		}
		if len(sheet.Columns) > 1 {
			last, _ := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
			if err := f.MergeCell(name, "A1", last); err != nil {
				return nil, fmt.Errorf("error merging title: %w", err)
			}
		}
		row = 3
	}

	for i, col := range sheet.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(name, cell, col.Label); err != nil {
			return nil, fmt.Errorf("error writing header: %w", err)
		}
		if err := f.SetCellStyle(name, cell, cell, styles.header); err != nil {
			return nil, fmt.Errorf("error styling header: %w", err)
		}
		if col.Width > 0 {
			letter, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(name, letter, letter, float64(col.Width)/pixelsPerChar); err != nil {
				return nil, fmt.Errorf("error sizing column %s: %w", letter, err)
			}
		}
	}

	for r, values := range sheet.Rows {
		for c, value := range values {
			if value == nil || c >= len(sheet.Columns) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, row+1+r)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return nil, fmt.Errorf("error writing cell %s: %w", cell, err)
			}
			if _, numeric := value.(float64); !numeric {
				continue
			}
			if style, ok := styles.forTag(sheet.Columns[c].Format); ok {
				if err := f.SetCellStyle(name, cell, cell, style); err != nil {
					return nil, fmt.Errorf("error styling cell %s: %w", cell, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type workbookStyles struct {
	title, header, currency, percent int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return s, fmt.Errorf("error creating title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
	}); err != nil {
		return s, fmt.Errorf("error creating header style: %w", err)
	}
	if s.currency, err = f.NewStyle(&excelize.Style{NumFmt: numFmtThousands2}); err != nil {
		return s, fmt.Errorf("error creating currency style: %w", err)
	}
	if s.percent, err = f.NewStyle(&excelize.Style{NumFmt: numFmtPercent2}); err != nil {
		return s, fmt.Errorf("error creating percent style: %w", err)
	}
	return s, nil
}

func (s workbookStyles) forTag(tag entity.FormatTag) (int, bool) {
	switch tag {
	case entity.TagCurrency:
		return s.currency, true
	case entity.TagPercentage:
		return s.percent, true
	default:
		return 0, false
	}
}

// sheetName strips characters excel rejects and caps the length at 31.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return defaultSheetName
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

// UnavailableSpreadsheetWriter stands in when xlsx output is disabled.
// The exporter answers it with CSV.
type UnavailableSpreadsheetWriter struct{}

func (UnavailableSpreadsheetWriter) WriteWorkbook(entity.Worksheet) ([]byte, error) {
	return nil, types.ErrSpreadsheetUnavailable
}
