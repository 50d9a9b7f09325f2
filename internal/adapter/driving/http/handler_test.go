package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/adapter/driven/export"
	"github.com/diillson/escola-artifacts-go/internal/adapter/driven/qrcode"
	"github.com/diillson/escola-artifacts-go/internal/application/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	clock := func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }
	uc := usecase.NewArtifactUseCase(
		qrcode.NewGenerator(nil),
		export.NewExportRepository(export.WithClock(clock)),
		nil, nil, nil,
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(NewHandler(uc, logger)))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestHealthzAndRequestID(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "success", decodeEnvelope(t, resp).Status)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "req-123", resp2.Header.Get("X-Request-ID"))
}

func TestGenerateQRPNG(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/qr", `{"data":"https://escola.example.com/aluno/42"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "300", resp.Header.Get("X-QR-Width"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}

func TestGenerateQRSVGReportsIgnored(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/qr", `{"data":"abc","format":"svg","frameText":"Turma A","style":"rounded"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "style,frame_text", resp.Header.Get("X-QR-Ignored"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "<svg"))
}

func TestGenerateQRBase64Envelope(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/qr", `{"data":"abc","format":"base64","width":200}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var data qrResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, strings.HasPrefix(data.Image, "data:image/png;base64,"))
	assert.Equal(t, "image/png", data.MimeType)
	assert.Equal(t, 200, data.Width)
}

func TestGenerateQRErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest, code: "INVALID_JSON"},
		{name: "missing data", body: `{}`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "bad color", body: `{"data":"x","foreground":"black"}`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "payload too large", body: `{"data":"` + strings.Repeat("x", 4000) + `","errorCorrectionLevel":"H"}`, status: http.StatusBadRequest, code: "ENCODING_ERROR"},
		{name: "logo is not an image", body: `{"data":"x","logo":"data:text/plain,hello"}`, status: http.StatusBadGateway, code: "ASSET_FETCH_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/qr", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			env := decodeEnvelope(t, resp)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestGenerateQRRefusesLocalLogoPaths(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	for _, logo := range []string{"/etc/passwd", "/etc/does-not-exist", "/root", "logo.png"} {
		t.Run(logo, func(t *testing.T) {
			resp := post(t, srv, "/v1/qr", `{"data":"x","logo":"`+logo+`"}`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			env := decodeEnvelope(t, resp)
			assert.Equal(t, "VALIDATION_ERROR", env.Code)
			assert.Equal(t, "invalid request: local logo paths are not accepted", env.Message)
		})
	}
}

func TestGenerateQRHidesLogoFetchDetails(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	logoSrv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(logoSrv.Close)

	for _, logo := range []string{logoSrv.URL + "/logo.png", "data:text/plain,hello"} {
		resp := post(t, srv, "/v1/qr", `{"data":"x","logo":"`+logo+`"}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, "ASSET_FETCH_FAILED", env.Code)
		assert.Equal(t, "logo could not be fetched or decoded", env.Message)
	}
}

func TestBatchGenerateQRLogoErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/qr/batch", `{"items":[{"data":"a","logo":"/etc/passwd"},{"data":"b"},{"data":"c","logo":"data:text/plain,hello"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		Index   int    `json:"index"`
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &items))
	require.Len(t, items, 3)

	assert.Equal(t, 0, items[0].Index)
	assert.False(t, items[0].Success)
	assert.Contains(t, items[0].Error, "local logo paths are not accepted")
	assert.Equal(t, 1, items[1].Index)
	assert.True(t, items[1].Success)
	assert.Equal(t, 2, items[2].Index)
	assert.False(t, items[2].Success)
	assert.Equal(t, "logo could not be fetched or decoded", items[2].Error)
}

func TestBatchGenerateQR(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/qr/batch", `{"items":[{"data":"a"},{"data":""},{"data":"c","format":"svg"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		Index    int    `json:"index"`
		Success  bool   `json:"success"`
		Image    string `json:"image"`
		MimeType string `json:"mimeType"`
		Error    string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &items))
	require.Len(t, items, 3)

	assert.True(t, items[0].Success)
	assert.True(t, strings.HasPrefix(items[0].Image, "data:image/png;base64,"))
	assert.False(t, items[1].Success)
	assert.NotEmpty(t, items[1].Error)
	assert.Empty(t, items[1].Image)
	assert.True(t, items[2].Success)
	assert.Equal(t, "image/svg+xml", items[2].MimeType)
	for i, it := range items {
		assert.Equal(t, i, it.Index)
	}

	empty := post(t, srv, "/v1/qr/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)
}

const invoicesExport = `{
  "template": "invoices",
  "format": %q,
  "data": [
    {"invoiceNumber": "INV-001", "studentName": "Ana Souza", "dueDate": "2024-02-10", "amount": 14970, "status": "paid"}
  ]
}`

func exportBody(format string) string {
	return strings.Replace(invoicesExport, "%q", `"`+format+`"`, 1)
}

func TestExportCSVAttachment(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/exports", exportBody("csv"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv;charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoices.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "csv", resp.Header.Get("X-Export-Format"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"INV-001","Ana Souza","10/02/2024","R$ 149,70","paid"`)
}

func TestExportXLSXAndPDF(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	xlsx := post(t, srv, "/v1/exports", exportBody("xlsx"))
	require.Equal(t, http.StatusOK, xlsx.StatusCode)
	assert.Equal(t, "xlsx", xlsx.Header.Get("X-Export-Format"))
	body, err := io.ReadAll(xlsx.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))

	pdf := post(t, srv, "/v1/exports", exportBody("pdf"))
	require.Equal(t, http.StatusOK, pdf.StatusCode)
	assert.Contains(t, pdf.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, `attachment; filename="invoices.html"`, pdf.Header.Get("Content-Disposition"))
}

func TestExportAcceptsPlainDateRange(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	body := strings.Replace(exportBody("pdf"), `"template"`, `"dateRange": {"start": "2024-01-01", "end": "2024-01-31"}, "template"`, 1)
	resp := post(t, srv, "/v1/exports", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "01/01/2024 a 31/01/2024")
}

func TestExportErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	unsupported := post(t, srv, "/v1/exports", exportBody("docx"))
	assert.Equal(t, http.StatusBadRequest, unsupported.StatusCode)
	env := decodeEnvelope(t, unsupported)
	assert.Equal(t, "UNSUPPORTED_FORMAT", env.Code)
	assert.Contains(t, env.Message, "unsupported format")

	missing := post(t, srv, "/v1/exports", `{"template":"boletim","format":"csv","data":[]}`)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, missing).Code)
}

func TestReportTemplates(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	list := get(t, srv, "/v1/report-templates")
	require.Equal(t, http.StatusOK, list.StatusCode)
	var names []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, list).Data, &names))
	assert.Len(t, names, 8)

	one := get(t, srv, "/v1/report-templates/invoices")
	require.Equal(t, http.StatusOK, one.StatusCode)
	var tpl struct {
		Title   string `json:"title"`
		Columns []struct {
			Key string `json:"key"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, one).Data, &tpl))
	assert.Equal(t, "Faturas", tpl.Title)
	assert.Len(t, tpl.Columns, 5)

	missing := get(t, srv, "/v1/report-templates/boletim")
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
