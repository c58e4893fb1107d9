package structure

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers structure routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/structures/{id}", func(r chi.Router) {
		r.Get("/", h.GetStructure)
		r.Put("/", h.SaveStructure)
		r.Get("/history", h.GetHistory)
		r.Post("/reconcile", h.ReconcileStructure)
		r.Get("/preview", h.Preview)
		r.Get("/export", h.Export)
	})
}
