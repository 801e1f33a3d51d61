// Package api exposes the reconciled audit data over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eshaffer321/subscription-auditor/internal/api/handlers"
	"github.com/eshaffer321/subscription-auditor/internal/api/middleware"
	"github.com/eshaffer321/subscription-auditor/internal/application/audit"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config       Config
	router       chi.Router
	httpServer   *http.Server
	logger       *slog.Logger
	repo         storage.Repository
	auditService *audit.Service
}

// NewServer creates a new API server.
// If auditService is nil, the trigger endpoint will not be available.
func NewServer(cfg Config, repo storage.Repository, auditService *audit.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:       cfg,
		router:       chi.NewRouter(),
		logger:       logger,
		repo:         repo,
		auditService: auditService,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	// Prometheus metrics
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		// Subscriptions from the latest (or a specific) run
		subsHandler := handlers.NewSubscriptionsHandler(s.repo)
		r.Get("/subscriptions", subsHandler.List)
		r.Get("/subscriptions/refund-candidates", subsHandler.RefundCandidates)

		// Audit runs (historical)
		runsHandler := handlers.NewRunsHandler(s.repo)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)

		// Stats
		statsHandler := handlers.NewStatsHandler(s.repo)
		r.Get("/stats", statsHandler.Get)

		// Refund request history
		refundsHandler := handlers.NewRefundsHandler(s.repo)
		r.Get("/refunds", refundsHandler.List)

		// On-demand audit trigger
		if s.auditService != nil {
			auditHandler := handlers.NewAuditHandler(s.auditService)
			r.Post("/audit", auditHandler.Start)
		}
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
