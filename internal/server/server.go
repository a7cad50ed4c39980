// Package server provides the HTTP API for brainboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/observability"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// Insights is the analysis surface the handlers call. *insight.Service
// implements it.
type Insights interface {
	AnalyzeMood(ctx context.Context, content string) (models.Mood, error)
	ClusterCards(ctx context.Context, cards []models.Card) ([]models.Cluster, error)
	SearchCards(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error)
	GenerateSuggestions(ctx context.Context, cards []models.Card) ([]string, error)
	SummarizeBoard(ctx context.Context, cards []models.Card) (models.Summary, error)
}

// Server is the HTTP server for the brainboard API.
type Server struct {
	insights Insights
	strategy string
	config   *config.ServerConfig
	metrics  *observability.Collector
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server. strategy is reported by /health; metrics may be nil.
func NewServer(insights Insights, strategy string, cfg *config.ServerConfig, metrics *observability.Collector, logger *zap.Logger) *Server {
	logger = utils.OrNop(logger)
	return &Server{
		insights: insights,
		strategy: strategy,
		config:   cfg,
		metrics:  metrics,
		logger:   logger,
	}
}

// Router builds the route tree with its middleware stack.
func (s *Server) Router() http.Handler {
	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(Tracing("brainboard"))
	r.Use(Metrics(s.metrics))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/mood", s.handleMood)
		r.Post("/cluster", s.handleCluster)
		r.Post("/search", s.handleSearch)
		r.Post("/suggestions", s.handleSuggestions)
		r.Post("/summary", s.handleSummary)
	})
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr), zap.String("strategy", s.strategy))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
