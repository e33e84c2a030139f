package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/gomovements/internal/adapter/http/handler"
	"github.com/iho/gomovements/internal/adapter/http/middleware"
	"github.com/iho/gomovements/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	MovementHandler    *handler.MovementHandler
	ConsistencyHandler *handler.ConsistencyHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Logging            *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Movements
		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.MovementHandler.Create)
			r.Get("/", cfg.MovementHandler.List)
			r.Get("/{id}", cfg.MovementHandler.Get)
			r.Put("/{id}", cfg.MovementHandler.Update)
			r.Get("/{id}/ledger", cfg.MovementHandler.GetLedger)
			r.Get("/{id}/history", cfg.MovementHandler.ListHistory)
		})

		// Consistency check
		r.Get("/consistency", cfg.ConsistencyHandler.Check)
	})

	return r
}
