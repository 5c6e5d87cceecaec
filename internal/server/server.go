// Package server provides the HTTP API for Kensaku.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/history"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/search"
)

// Server is the HTTP server for the Kensaku API.
type Server struct {
	orchestrator *search.Orchestrator[models.Record]
	history      *history.Store
	config       *config.ServerConfig
	searchCfg    *config.SearchConfig
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies. hist may be nil
// when history is disabled.
func NewServer(
	orchestrator *search.Orchestrator[models.Record],
	hist *history.Store,
	cfg *config.ServerConfig,
	searchCfg *config.SearchConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		orchestrator: orchestrator,
		history:      hist,
		config:       cfg,
		searchCfg:    searchCfg,
		logger:       logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/suggest", s.handleSuggest)
	r.Post("/api/v1/search/submit", s.handleSubmit)
	r.Get("/api/v1/history", s.handleHistoryList)
	r.Delete("/api/v1/history", s.handleHistoryClear)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
