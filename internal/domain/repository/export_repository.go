package repository

import (
	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
)

// ExportRepository turns column-typed rows into a byte artifact.
// Every operation reports failure through ExportResult rather than an error.
type ExportRepository interface {
	FormatValue(value any, tag entity.FormatTag) string

	ExportToCSV(req entity.ExportRequest) entity.ExportResult
	ExportToJSON(req entity.ExportRequest) entity.ExportResult
	ExportToExcel(req entity.ExportRequest) entity.ExportResult
	ExportToPDF(req entity.ExportRequest) entity.ExportResult
	ExportToPDFDocument(req entity.ExportRequest) entity.ExportResult

	// ExportData dispatches on req.Format.
	ExportData(req entity.ExportRequest) entity.ExportResult
}

// SpreadsheetWriter serializes a typed worksheet into a workbook.
// Implementations that cannot produce one return types.ErrSpreadsheetUnavailable.
type SpreadsheetWriter interface {
	WriteWorkbook(sheet entity.Worksheet) ([]byte, error)
}
