// Package server exposes the retrieval engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/generate"
	"github.com/hyperjump/kotae/internal/indexer"
	"github.com/hyperjump/kotae/internal/search"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
)

// Server wires the engine, pipeline, and storage behind a chi router.
type Server struct {
	engine    *search.Engine
	pipeline  *indexer.Pipeline
	generator generate.Generator
	registry  storage.Registry
	files     *storage.FileStore
	store     vector.Store
	topK      int
	log       *zap.Logger

	httpSrv *http.Server
}

// Options carries the server's collaborators.
type Options struct {
	Engine    *search.Engine
	Pipeline  *indexer.Pipeline
	Generator generate.Generator
	Registry  storage.Registry
	Files     *storage.FileStore
	Store     vector.Store
	TopK      int
	Logger    *zap.Logger
}

// New creates the HTTP server.
func New(opts Options) *Server {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	return &Server{
		engine:    opts.Engine,
		pipeline:  opts.Pipeline,
		generator: opts.Generator,
		registry:  opts.Registry,
		files:     opts.Files,
		store:     opts.Store,
		topK:      opts.TopK,
		log:       opts.Logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/ask", s.handleAsk)
	r.Post("/search", s.handleSearch)
	r.Post("/upload", s.handleUpload)
	r.Get("/files", s.handleListFiles)
	r.Get("/files/{filename}", s.handleGetFile)
	r.Delete("/files", s.handleDeleteFiles)
	r.Post("/reindex", s.handleReindex)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	return r
}

// Start begins serving on host:port and blocks until the listener fails or
// the server is stopped.
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("server listening", zap.String("addr", addr))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
