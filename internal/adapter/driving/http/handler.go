package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/diillson/escola-artifacts-go/internal/application/usecase"
	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxBodyBytes = 10 << 20
	maxBatchSize = 200

	assetFetchMessage = "logo could not be fetched or decoded"
)

var errLocalLogo = fmt.Errorf("%w: local logo paths are not accepted", types.ErrInvalidRequest)

type Handler struct {
	uc     *usecase.ArtifactUseCase
	logger *slog.Logger
}

func NewHandler(uc *usecase.ArtifactUseCase, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{uc: uc, logger: logger}
}

type qrResponse struct {
	Image    string           `json:"image"`
	MimeType string           `json:"mimeType"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Format   entity.QRFormat  `json:"format"`
	Ignored  []entity.Feature `json:"ignored,omitempty"`
}

type batchRequest struct {
	Items []entity.QRRequest `json:"items"`
}

type batchItem struct {
	Index   int  `json:"index"`
	Success bool `json:"success"`
	*qrResponse
	Error string `json:"error,omitempty"`
}

type exportRequest struct {
	entity.ExportRequest
	Template string `json:"template,omitempty"`
}

func (h *Handler) generateQR(w http.ResponseWriter, r *http.Request) {
	var req entity.QRRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := checkLogo(req.Logo); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.uc.GenerateQR(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if res.Format == entity.QRFormatBase64 {
		writeSuccess(w, http.StatusOK, toQRResponse(res))
		return
	}

	w.Header().Set("Content-Type", res.MimeType)
	w.Header().Set("X-QR-Width", strconv.Itoa(res.Width))
	w.Header().Set("X-QR-Height", strconv.Itoa(res.Height))
	if len(res.Ignored) > 0 {
		w.Header().Set("X-QR-Ignored", joinFeatures(res.Ignored))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Image)
}

func (h *Handler) batchGenerateQR(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "items must not be empty", requestIDFromContext(r.Context()))
		return
	}
	if len(req.Items) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("at most %d items per batch", maxBatchSize), requestIDFromContext(r.Context()))
		return
	}

	out := make([]batchItem, len(req.Items))
	pending := make([]entity.QRRequest, 0, len(req.Items))
	slots := make([]int, 0, len(req.Items))
	for i, item := range req.Items {
		if err := checkLogo(item.Logo); err != nil {
			out[i] = batchItem{Index: i, Error: err.Error()}
			continue
		}
		pending = append(pending, item)
		slots = append(slots, i)
	}

	for j, res := range h.uc.BatchGenerateQR(r.Context(), pending) {
		i := slots[j]
		out[i] = batchItem{Index: i, Success: res.Success()}
		if res.Success() {
			qr := toQRResponse(res.Result)
			out[i].qrResponse = &qr
		} else {
			out[i].Error = h.clientMessage(r, res.Err)
		}
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.uc.Export(req.ExportRequest, req.Template)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !res.Success {
		status, code := http.StatusInternalServerError, "EXPORT_FAILED"
		if !req.Format.Known() {
			status, code = http.StatusBadRequest, "UNSUPPORTED_FORMAT"
		}
		h.logger.WarnContext(r.Context(), "export failed", "format", req.Format, "error", res.Error, "request_id", requestIDFromContext(r.Context()))
		writeError(w, status, code, res.Error, requestIDFromContext(r.Context()))
		return
	}

	w.Header().Set("Content-Type", res.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("X-Export-Format", string(res.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Blob)
}

func (h *Handler) listTemplates(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, h.uc.Templates())
}

func (h *Handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.uc.Template(chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, tpl)
}

// decode reads a JSON body; numbers stay json.Number so cents survive intact.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error(), requestIDFromContext(r.Context()))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapDomainError(err)
	message := h.clientMessage(r, err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		message = "internal server error"
	}
	writeError(w, status, code, message, requestIDFromContext(r.Context()))
}

// clientMessage hides logo fetch details, which would reveal what the
// server can reach, and logs them instead.
func (h *Handler) clientMessage(r *http.Request, err error) string {
	if errors.Is(err, types.ErrAssetFetch) {
		h.logger.WarnContext(r.Context(), "logo fetch failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		return assetFetchMessage
	}
	return err.Error()
}

// checkLogo rejects logo references that point at the server's own disk.
func checkLogo(raw string) error {
	if raw == "" {
		return nil
	}
	src, err := entity.ParseLogoSource(raw)
	if err != nil {
		// malformed references fail later as asset fetch errors
		return nil
	}
	if src.Kind == entity.LogoSourcePath {
		return errLocalLogo
	}
	return nil
}

func toQRResponse(res entity.QRResult) qrResponse {
	return qrResponse{
		Image:    qrImageText(res),
		MimeType: res.MimeType,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
		Ignored:  res.Ignored,
	}
}

// qrImageText renders the artifact as text: SVG and base64 already are,
// PNG becomes a data URI.
func qrImageText(res entity.QRResult) string {
	if res.Format == entity.QRFormatPNG {
		return entity.EncodeDataURI(res.MimeType, res.Image)
	}
	return string(res.Image)
}

func joinFeatures(features []entity.Feature) string {
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
