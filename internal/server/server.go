// Package server provides the HTTP API for Kotae.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/session"
	"github.com/hyperjump/kotae/internal/store"
	"github.com/hyperjump/kotae/internal/synthesis"
)

// Server is the HTTP server for the Kotae API.
type Server struct {
	synth    *synthesis.Synthesizer
	pipeline *ingest.Pipeline
	store    *store.Store
	sessions *session.Store
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	synth *synthesis.Synthesizer,
	pipeline *ingest.Pipeline,
	st *store.Store,
	sessions *session.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		synth:    synth,
		pipeline: pipeline,
		store:    st,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
}

// Router assembles the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/chat", s.handleChat)
	r.Post("/api/v1/ingest", s.handleIngest)
	r.Delete("/api/v1/sessions/{id}", s.handleDeleteSession)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
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
