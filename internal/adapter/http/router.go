package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/bankrecon/internal/adapter/http/handler"
	"github.com/iho/bankrecon/internal/adapter/http/middleware"
	"github.com/iho/bankrecon/internal/infrastructure/metrics"
	"github.com/iho/bankrecon/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	AssociationHandler *handler.AssociationHandler
	ImportHandler      *handler.ImportHandler
	EntryHandler       *handler.EntryHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
	RequestTimeout   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/companies/{companyID}", func(r chi.Router) {
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{number}", cfg.AccountHandler.Get)
			})

			r.Route("/associations", func(r chi.Router) {
				r.Get("/", cfg.AssociationHandler.List)
				r.Put("/", cfg.AssociationHandler.Upsert)
				r.Delete("/{id}", cfg.AssociationHandler.Delete)
			})
		})

		// Imports
		r.Route("/imports", func(r chi.Router) {
			r.Post("/", cfg.ImportHandler.Confirm)
			r.Post("/preview", cfg.ImportHandler.Preview)
			r.Post("/associations", cfg.AssociationHandler.SaveAll)
		})

		r.Route("/fiscal-years/{fiscalYearID}", func(r chi.Router) {
			r.Get("/entries", cfg.EntryHandler.ListByFiscalYear)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		})

		r.Get("/entries/{id}", cfg.EntryHandler.Get)
	})

	return r
}
