package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(handler.logger))
	r.Use(recoverMiddleware(handler.logger))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok") })
	r.Route("/v1", func(r chi.Router) {
		r.Post("/qr", handler.generateQR)
		r.Post("/qr/batch", handler.batchGenerateQR)
		r.Post("/exports", handler.export)
		r.Get("/report-templates", handler.listTemplates)
		r.Get("/report-templates/{name}", handler.getTemplate)
	})
	return r
}
