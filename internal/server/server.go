// Package server provides the HTTP API for katalog.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/katalog/internal/config"
	"github.com/hyperjump/katalog/internal/session"
	"go.uber.org/zap"
)

// Server is the HTTP server for the katalog API.
type Server struct {
	session *session.Session
	config  *config.ServerConfig
	search  config.SearchConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	sess *session.Session,
	cfg *config.ServerConfig,
	searchCfg config.SearchConfig,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		session: sess,
		config:  cfg,
		search:  searchCfg,
		logger:  logger,
	}
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/state", s.handleState)
		r.Post("/reload", s.handleReload)

		r.Get("/hierarchy", s.handleHierarchy)
		r.Get("/models", s.handleModels)
		r.Post("/models/{name}/select", s.handleSelect)
		r.Post("/models/{name}/visualize", s.handleVisualize)
		r.Get("/models/{name}/graph", s.handleGraph)

		r.Get("/grid", s.handleGrid)
		r.Get("/table", s.handleTable)
		r.Post("/groups/toggle", s.handleToggleGroup)

		r.Put("/search", s.handleSetQuery)
		r.Delete("/search", s.handleClearSearch)
		r.Get("/parts", s.handleParts)
	})
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
