package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casalar/ledger/internal/adapter/http/handler"
	"github.com/casalar/ledger/internal/adapter/http/middleware"
	"github.com/casalar/ledger/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	StatementHandler *handler.StatementHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	Metrics          *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 - read-only views over the per-tenant ledgers
	r.Route("/api/v1/tenants/{schema}", func(r chi.Router) {
		r.Get("/consistency", cfg.LedgerHandler.CheckTenant)
		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/statement", cfg.StatementHandler.Get)
			r.Get("/consistency", cfg.LedgerHandler.CheckAccount)
		})
	})

	return r
}
