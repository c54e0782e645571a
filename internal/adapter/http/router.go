package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gosales/internal/adapter/http/handler"
	"github.com/iho/gosales/internal/adapter/http/middleware"
	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/auth"
	"github.com/iho/gosales/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SaleHandler      *handler.SaleHandler
	ReportHandler    *handler.ReportHandler
	ExchangeHandler  *handler.ExchangeHandler
	ClientHandler    *handler.ClientHandler
	InventoryHandler *handler.InventoryHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	AuthHandler      *handler.AuthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	// JWTManager enables bearer authentication when set.
	JWTManager     *auth.JWTManager
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metrics := cfg.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Handle("/metrics", metrics)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			r.Use(middleware.RequireRoleForWrites(domain.RoleEditor))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Sales
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", cfg.SaleHandler.List)
			r.Post("/", cfg.SaleHandler.Create)
			r.Post("/reorder", cfg.SaleHandler.Reorder)
			r.Post("/import", cfg.SaleHandler.Import)
			r.Get("/export", cfg.SaleHandler.Export)
			r.Get("/{id}", cfg.SaleHandler.Get)
			r.Put("/{id}", cfg.SaleHandler.Update)
			r.Delete("/{id}", cfg.SaleHandler.Delete)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/currency", cfg.ReportHandler.Currency)
			r.Get("/areas", cfg.ReportHandler.Areas)
			r.Get("/clients", cfg.ReportHandler.Clients)
			r.Get("/monthly", cfg.ReportHandler.Monthly)
			r.Get("/compare", cfg.ReportHandler.Compare)
		})

		r.Route("/exchange-rate", func(r chi.Router) {
			r.Get("/", cfg.ExchangeHandler.Get)
			r.Post("/refresh", cfg.ExchangeHandler.Refresh)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/status", cfg.LedgerHandler.Status)
			r.Get("/order", cfg.LedgerHandler.Order)
		})

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", cfg.ClientHandler.List)
			r.Post("/", cfg.ClientHandler.Create)
			r.Get("/{id}", cfg.ClientHandler.Get)
			r.Put("/{id}", cfg.ClientHandler.Update)
			r.Delete("/{id}", cfg.ClientHandler.Delete)
		})

		// Inventory
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", cfg.InventoryHandler.List)
			r.Post("/", cfg.InventoryHandler.Create)
			r.Get("/{id}", cfg.InventoryHandler.Get)
			r.Put("/{id}", cfg.InventoryHandler.Update)
			r.Delete("/{id}", cfg.InventoryHandler.Delete)
		})

		if cfg.AuthHandler != nil && cfg.JWTManager != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Get("/me", cfg.AuthHandler.Me)
				r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/tokens", cfg.AuthHandler.IssueToken)
			})
		}
	})

	return r
}
