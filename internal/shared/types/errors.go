package types

import "errors"

var (
	// ErrEncoding means the payload does not fit the symbol at the requested error-correction level.
	ErrEncoding = errors.New("qr encoding failed")
	// ErrAssetFetch means a logo could not be fetched or decoded.
	ErrAssetFetch = errors.New("asset fetch failed")
	// ErrUnsupportedFormat means the dispatch table does not know the requested format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrSpreadsheetUnavailable is returned by spreadsheet writers that cannot produce a workbook.
	ErrSpreadsheetUnavailable = errors.New("spreadsheet writer unavailable")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrInvalidColor           = errors.New("invalid color")
	ErrTemplateNotFound       = errors.New("report template not found")
	ErrStorage                = errors.New("artifact storage failed")
)
