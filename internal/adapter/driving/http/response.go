package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diillson/escola-artifacts-go/internal/shared/types"
)

type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type errorResponse struct {
	Status    string `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successResponse{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	writeJSON(w, status, errorResponse{Status: "error", Code: code, Message: message, RequestID: requestID})
}

func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrInvalidRequest), errors.Is(err, types.ErrInvalidColor):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, types.ErrEncoding):
		return http.StatusBadRequest, "ENCODING_ERROR"
	case errors.Is(err, types.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.Is(err, types.ErrTemplateNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, types.ErrAssetFetch):
		return http.StatusBadGateway, "ASSET_FETCH_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
