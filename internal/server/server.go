// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the research platform HTTP API: task
// submission, status and progressive polling, results, document
// download, and operational endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/docstore"
	"github.com/MajorAbdullah/ai-research-platform/internal/metrics"
	"github.com/MajorAbdullah/ai-research-platform/internal/registry"
	"github.com/MajorAbdullah/ai-research-platform/internal/storage"
	"github.com/MajorAbdullah/ai-research-platform/internal/workflow"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// Server wires the platform's components behind the HTTP API.
type Server struct {
	cfg      types.Config
	logger   *zap.Logger
	registry *registry.Registry
	store    *storage.Store
	docs     *docstore.Manager
	runner   *workflow.Runner
	orch     *workflow.Orchestrator
	results  *resultCache
	pool     *workerPool
	metrics  *metrics.Metrics

	httpServer *http.Server
}

// New assembles a Server around an AI backend. The storage mirror is
// opened and previously completed results are loaded into the results
// cache.
func New(cfg types.Config, logger *zap.Logger, backend workflow.Backend) (*Server, error) {
	m := metrics.New()
	runner := workflow.NewRunner(backend, logger, m, cfg.Upstream)

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening task storage: %w", err)
	}

	docs, err := docstore.New(cfg.Documents)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening document store: %w", err)
	}

	results := newResultCache()
	loaded, err := store.LoadCompleted()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading completed results: %w", err)
	}
	for _, r := range loaded {
		results.Put(r)
	}
	logger.Info("loaded persisted results", zap.Int("count", len(loaded)))

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry.New(),
		store:    store,
		docs:     docs,
		runner:   runner,
		orch:     workflow.NewOrchestrator(runner, logger),
		results:  results,
		pool:     newWorkerPool(cfg.Server.Workers),
		metrics:  m,
	}
	s.httpServer = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: s.routes(),
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/models", s.handleModels)

	mux.HandleFunc("POST /api/research", s.handleSubmit)
	mux.HandleFunc("GET /api/research/results", s.handleAllResults)
	mux.HandleFunc("GET /api/research/documents", s.handleListDocuments)
	mux.HandleFunc("GET /api/research/{id}/status", s.handleStatus)
	mux.HandleFunc("GET /api/research/{id}/progressive", s.handleProgressive)
	mux.HandleFunc("GET /api/research/{id}/result", s.handleResult)
	mux.HandleFunc("GET /api/research/{id}/download", s.handleDownload)
	mux.HandleFunc("DELETE /api/research/{id}", s.handleDelete)

	mux.HandleFunc("GET /api/dashboard/overview", s.handleDashboardOverview)
	mux.HandleFunc("GET /api/dashboard/ideas", s.handleDashboardIdeas)

	mux.Handle("GET /metrics", s.metrics.Handler())

	return mux
}

// Start begins serving. It blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.logger.Info("research platform listening", zap.String("addr", s.cfg.Server.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains the HTTP server and worker pool, then closes the
// storage mirror.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.pool.Close()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}
