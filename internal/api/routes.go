package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the API endpoints on r. Callers mount r under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.rateLimit != nil {
			r.Use(h.rateLimit)
		}
		r.Post("/generate", h.Generate)
		r.Post("/refine", h.Refine)
		r.Post("/explain", h.Explain)
		r.Post("/convert", h.Convert)
	})
	r.Post("/export", h.Export)
	r.Get("/history", h.ListHistory)
	r.Get("/history/{id}", h.GetHistory)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		Error(w, http.StatusNotFound, "not found")
	})
}
