package reconcile

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers stateless engine routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/reconcile", h.Reconcile)
	r.Post("/repair", h.Repair)
	r.Post("/inspect", h.Inspect)
	r.Post("/merge", h.Merge)
	r.Post("/normalize", h.Normalize)
	r.Post("/diff", h.Diff)
}
