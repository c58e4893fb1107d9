package api

import (
	"net/http"
	"time"

	"github.com/futig/structure-engine/internal/api/docs"
	"github.com/futig/structure-engine/internal/api/middleware"
	reconcileapi "github.com/futig/structure-engine/internal/api/reconcile"
	structureapi "github.com/futig/structure-engine/internal/api/structure"
	"github.com/futig/structure-engine/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	reconcileHandler *reconcileapi.Handler,
	structureHandler *structureapi.Handler,
	corsOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigins))
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	docs.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		reconcileapi.RegisterRoutes(r, reconcileHandler)
		structureapi.RegisterRoutes(r, structureHandler)
	})

	return r
}
