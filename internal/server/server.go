// Package server implements the Wayfinder HTTP API.
//
// The server holds one graph in memory and exposes it over a JSON API:
// inspecting and editing the map, computing routes, and persisting the map
// through a [store.Store]. Route results are cached keyed on the graph
// version, so any edit invalidates previously cached routes without
// explicit eviction.
//
// Mutating handlers take the write lock, everything else the read lock.
// Searches run under the read lock and never mutate the graph.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wayfinder/wayfinder/pkg/cache"
	"github.com/wayfinder/wayfinder/pkg/config"
	"github.com/wayfinder/wayfinder/pkg/graph"
	"github.com/wayfinder/wayfinder/pkg/store"
)

// Server is the HTTP API around one in-memory graph.
type Server struct {
	mu    sync.RWMutex
	graph *graph.Graph

	cfg    config.Config
	store  store.Store
	cache  cache.Cache
	logger *log.Logger
}

// New creates a server around g. The store may be nil, in which case the
// save and load endpoints report an internal error; the cache may be nil
// to disable route caching.
func New(g *graph.Graph, cfg config.Config, st store.Store, c cache.Cache, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		graph:  g,
		cfg:    cfg,
		store:  st,
		cache:  c,
		logger: logger,
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Post("/graph/nodes", s.handleAddNode)
		r.Delete("/graph/nodes/{id}", s.handleRemoveNode)
		r.Post("/graph/edges", s.handleAddEdge)
		r.Delete("/graph/edges/{from}/{to}", s.handleRemoveEdge)
		r.Post("/graph/save", s.handleSave)
		r.Post("/graph/load", s.handleLoad)

		r.Post("/paths", s.handleFindPath)
		r.Get("/paths/trace", s.handleTrace)
	})

	return r
}

// ListenAndServe runs the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: s.cfg.Server.WriteTimeout.Duration(),
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
