package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQR struct {
	err error
}

func (f *fakeQR) Generate(_ context.Context, req entity.QRRequest) (entity.QRResult, error) {
	if f.err != nil {
		return entity.QRResult{}, f.err
	}
	format := req.Format
	if format == "" {
		format = entity.QRFormatPNG
	}
	res := entity.QRResult{Image: []byte(req.Data), MimeType: "image/png", Width: 300, Height: 300, Format: format}
	if format == entity.QRFormatSVG && req.Logo != "" {
		res.MimeType = "image/svg+xml"
		res.Ignored = []entity.Feature{entity.FeatureLogo}
	}
	return res, nil
}

func (f *fakeQR) BatchGenerate(ctx context.Context, reqs []entity.QRRequest) []entity.QRBatchResult {
	out := make([]entity.QRBatchResult, len(reqs))
	for i, req := range reqs {
		out[i].Index = i
		if req.Data == "" {
			out[i].Err = fmt.Errorf("%w: data is required", types.ErrInvalidRequest)
			continue
		}
		out[i].Result, out[i].Err = f.Generate(ctx, req)
	}
	return out
}

type fakeExporter struct {
	last entity.ExportRequest
}

func (f *fakeExporter) FormatValue(value any, _ entity.FormatTag) string { return fmt.Sprint(value) }

func (f *fakeExporter) ExportToCSV(req entity.ExportRequest) entity.ExportResult {
	return entity.ExportResult{Success: true, Format: entity.FormatCSV, Filename: req.Filename + ".csv", MimeType: "text/csv", Blob: []byte("csv")}
}
func (f *fakeExporter) ExportToJSON(req entity.ExportRequest) entity.ExportResult {
	return entity.ExportResult{Success: true, Format: entity.FormatJSON, Filename: req.Filename + ".json", MimeType: "application/json", Blob: []byte("{}")}
}

// ExportToExcel behaves like an environment without a spreadsheet writer.
func (f *fakeExporter) ExportToExcel(req entity.ExportRequest) entity.ExportResult {
	return f.ExportToCSV(req)
}
func (f *fakeExporter) ExportToPDF(req entity.ExportRequest) entity.ExportResult {
	return entity.Failed(entity.FormatPDF, errors.New("boom"))
}
func (f *fakeExporter) ExportToPDFDocument(req entity.ExportRequest) entity.ExportResult {
	return f.ExportToPDF(req)
}

func (f *fakeExporter) ExportData(req entity.ExportRequest) entity.ExportResult {
	f.last = req
	switch req.Format {
	case entity.FormatCSV:
		return f.ExportToCSV(req)
	case entity.FormatJSON:
		return f.ExportToJSON(req)
	case entity.FormatXLSX:
		return f.ExportToExcel(req)
	case entity.FormatPDF:
		return f.ExportToPDF(req)
	default:
		return entity.Failed(req.Format, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, req.Format))
	}
}

type saved struct {
	filename, mimeType string
	blob               []byte
}

type fakeStore struct {
	mu    sync.Mutex
	saved []saved
	err   error
}

func (s *fakeStore) Save(_ context.Context, filename, mimeType string, blob []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, saved{filename, mimeType, blob})
	return "/out/" + filename, nil
}

type fakeConfig struct {
	batch []entity.QRRequest
	cols  []entity.Column
	rows  []entity.Row
}

func (c *fakeConfig) LoadConfigFile(string) (*types.Config, error) {
	cfg := types.DefaultConfig()
	return &cfg, nil
}
func (c *fakeConfig) LoadQRBatchFile(string) ([]entity.QRRequest, error) { return c.batch, nil }
func (c *fakeConfig) LoadColumnsFile(string) ([]entity.Column, error) { return c.cols, nil }
func (c *fakeConfig) LoadRowsFile(string) ([]entity.Row, error) { return c.rows, nil }

type fakeConsole struct {
	lines []string
}

func (c *fakeConsole) record(level, format string, a ...interface{}) {
	c.lines = append(c.lines, level+": "+fmt.Sprintf(format, a...))
}

func (c *fakeConsole) Print(a ...interface{}) { c.lines = append(c.lines, fmt.Sprint(a...)) }
func (c *fakeConsole) Printf(format string, a ...interface{}) { c.record("print", format, a...) }
func (c *fakeConsole) Println(a ...interface{}) { c.lines = append(c.lines, fmt.Sprint(a...)) }
func (c *fakeConsole) LogInfo(format string, a ...interface{}) { c.record("info", format, a...) }
func (c *fakeConsole) LogWarning(format string, a ...interface{}) { c.record("warning", format, a...) }
func (c *fakeConsole) LogError(format string, a ...interface{}) { c.record("error", format, a...) }
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) { c.record("success", format, a...) }
func (c *fakeConsole) Status(string) types.StatusHandle { return nopHandle{} }
func (c *fakeConsole) ProgressWithTotal(string, int) types.ProgressHandle {
	return nopHandle{}
}
func (c *fakeConsole) Panel(title, content string) { c.lines = append(c.lines, title+"\n"+content) }
func (c *fakeConsole) CreateTable() types.TableInterface { return &fakeTable{} }

func (c *fakeConsole) contains(prefix string) bool {
	for _, l := range c.lines {
		if strings.Contains(l, prefix) {
			return true
		}
	}
	return false
}

type nopHandle struct{}

func (nopHandle) Update(string) {}
func (nopHandle) Increment() {}
func (nopHandle) Stop() {}

type fakeTable struct {
	rows [][]string
}

func (t *fakeTable) AddColumn(string, ...interface{}) {}
func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}
func (t *fakeTable) Render() string {
	var b strings.Builder
	for _, r := range t.rows {
		b.WriteString(strings.Join(r, " | "))
		b.WriteString("\n")
	}
	return b.String()
}

type fixture struct {
	uc       *ArtifactUseCase
	qr       *fakeQR
	exporter *fakeExporter
	store    *fakeStore
	config   *fakeConfig
	console  *fakeConsole
}

func newFixture() *fixture {
	f := &fixture{
		qr:       &fakeQR{},
		exporter: &fakeExporter{},
		store:    &fakeStore{},
		config:   &fakeConfig{},
		console:  &fakeConsole{},
	}
	f.uc = NewArtifactUseCase(f.qr, f.exporter, f.store, f.config, f.console)
	return f
}

func TestExportResolvesTemplate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	res, err := f.uc.Export(entity.ExportRequest{Format: entity.FormatCSV}, "invoices")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "invoices.csv", res.Filename)
	assert.Equal(t, "Faturas", f.exporter.last.Title)
	require.Len(t, f.exporter.last.Columns, 5)
	assert.Equal(t, "invoiceNumber", f.exporter.last.Columns[0].Key)
}

func TestExportKeepsExplicitColumnsAndTitle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	cols := []entity.Column{{Key: "x", Label: "X"}}
	_, err := f.uc.Export(entity.ExportRequest{Format: entity.FormatJSON, Title: "Custom", Filename: "rel", Columns: cols}, "invoices")
	require.NoError(t, err)
	assert.Equal(t, cols, f.exporter.last.Columns)
	assert.Equal(t, "Custom", f.exporter.last.Title)
	assert.Equal(t, "rel", f.exporter.last.Filename)
}

func TestExportUnknownTemplate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.uc.Export(entity.ExportRequest{Format: entity.FormatCSV}, "missing")
	assert.ErrorIs(t, err, types.ErrTemplateNotFound)

	_, err = f.uc.Template("missing")
	assert.ErrorIs(t, err, types.ErrTemplateNotFound)
}

func TestTemplatesSorted(t *testing.T) {
	t.Parallel()

	tpls := newFixture().uc.Templates()
	require.Len(t, tpls, len(entity.TemplateNames()))
	for i := 1; i < len(tpls); i++ {
		assert.Less(t, tpls[i-1].Name, tpls[i].Name)
	}
}

func TestRunQRStoresArtifact(t *testing.T) {
	t.Parallel()

	f := newFixture()
	require.NoError(t, f.uc.RunQR(context.Background(), entity.QRRequest{Data: "abc", Format: entity.QRFormatSVG, Logo: "logo.png"}, "aluno"))

	require.Len(t, f.store.saved, 1)
	assert.Equal(t, "aluno.svg", f.store.saved[0].filename)
	assert.Equal(t, "image/svg+xml", f.store.saved[0].mimeType)
	assert.True(t, f.console.contains("warning: Format svg does not support: logo"))
	assert.True(t, f.console.contains("success: QR code (300x300) saved to: /out/aluno.svg"))
}

func TestRunQRDefaultNameAndErrors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	require.NoError(t, f.uc.RunQR(context.Background(), entity.QRRequest{Data: "abc", Format: entity.QRFormatBase64}, ""))
	assert.Equal(t, "qrcode.txt", f.store.saved[0].filename)

	f.qr.err = types.ErrEncoding
	err := f.uc.RunQR(context.Background(), entity.QRRequest{Data: "abc"}, "")
	assert.ErrorIs(t, err, types.ErrEncoding)

	f.qr.err = nil
	f.store.err = types.ErrStorage
	err = f.uc.RunQR(context.Background(), entity.QRRequest{Data: "abc"}, "")
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestRunQRBatch(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.config.batch = []entity.QRRequest{{Data: "a"}, {Data: ""}, {Data: "c", Format: entity.QRFormatSVG}}

	require.NoError(t, f.uc.RunQRBatch(context.Background(), "batch.yaml", "turma"))

	require.Len(t, f.store.saved, 2)
	assert.Equal(t, "turma_001.png", f.store.saved[0].filename)
	assert.Equal(t, "turma_003.svg", f.store.saved[1].filename)
	assert.True(t, f.console.contains("warning: 1 of 3 QR codes failed"))
}

func TestRunQRBatchAllFailed(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.config.batch = []entity.QRRequest{{}, {}}
	assert.ErrorContains(t, f.uc.RunQRBatch(context.Background(), "batch.yaml", ""), "all 2 QR codes failed")
	assert.Empty(t, f.store.saved)
}

func TestRunExport(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.config.rows = []entity.Row{{"invoiceNumber": "INV-001", "amount": 149700}}

	err := f.uc.RunExport(context.Background(), types.ExportArgs{
		Template:  "invoices",
		InputFile: "rows.json",
		Formats:   []string{"csv", "xlsx", "pdf", "docx"},
		From:      "2024-01-01",
		To:        "2024-01-31",
	}, "")
	require.NoError(t, err)

	require.Len(t, f.store.saved, 2)
	assert.Equal(t, "invoices.csv", f.store.saved[0].filename)
	assert.Equal(t, "invoices.csv", f.store.saved[1].filename)
	assert.True(t, f.console.contains("warning: XLSX writer unavailable, exported as CSV instead"))
	assert.True(t, f.console.contains("error: Failed to export to PDF: boom"))
	assert.True(t, f.console.contains("error: Failed to export to DOCX: unsupported format: docx"))

	require.NotNil(t, f.exporter.last.DateRange)
	assert.Equal(t, 31, f.exporter.last.DateRange.End.Day())
}

func TestRunExportValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args types.ExportArgs
		is   error
	}{
		{name: "no input", args: types.ExportArgs{Template: "invoices"}, is: types.ErrInvalidRequest},
		{name: "no columns", args: types.ExportArgs{InputFile: "rows.json"}, is: types.ErrInvalidRequest},
		{name: "half range", args: types.ExportArgs{Template: "invoices", InputFile: "rows.json", From: "2024-01-01"}, is: types.ErrInvalidRequest},
		{name: "bad date", args: types.ExportArgs{Template: "invoices", InputFile: "rows.json", From: "01/01/2024", To: "2024-01-31"}, is: types.ErrInvalidRequest},
		{name: "inverted range", args: types.ExportArgs{Template: "invoices", InputFile: "rows.json", From: "2024-02-01", To: "2024-01-31"}, is: types.ErrInvalidRequest},
		{name: "unknown template", args: types.ExportArgs{Template: "nope", InputFile: "rows.json"}, is: types.ErrTemplateNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture()
			assert.ErrorIs(t, f.uc.RunExport(context.Background(), tt.args, ""), tt.is)
		})
	}
}

func TestShowTemplates(t *testing.T) {
	t.Parallel()

	f := newFixture()
	require.NoError(t, f.uc.ShowTemplates(""))
	assert.True(t, f.console.contains("invoices"))

	require.NoError(t, f.uc.ShowTemplates("invoices"))
	assert.True(t, f.console.contains("amount | Valor | 120 | currency | right"))

	assert.ErrorIs(t, f.uc.ShowTemplates("missing"), types.ErrTemplateNotFound)
}
