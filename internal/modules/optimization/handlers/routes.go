package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all optimization routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/optimization", func(r chi.Router) {
		r.Get("/analysis", h.HandleAnalysis)
		r.Get("/frontier", h.HandleFrontier)
		r.Get("/chart", h.HandleChart)
	})
}
