// Package web serves the rule miner over HTTP.
//
// The root page is a form posting a dataset name and a minimum support; the
// dataset is read from {datasets dir}/{name}-out1.csv and the resulting rule
// list is rendered below the form. POST /api/rules does the same for JSON
// clients, and /metrics exposes Prometheus counters for mining runs.
package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blackwell-systems/basketmine/internal/itemset"
	"github.com/blackwell-systems/basketmine/internal/miner"
)

//go:embed templates/index.html
var templateFS embed.FS

// DatasetSource supplies named transaction datasets that have no file in
// the datasets directory. *store.Store implements it.
type DatasetSource interface {
	LoadTransactions(name string) ([]itemset.Transaction, error)
}

// Config configures a Server.
type Config struct {
	// DatasetsDir holds {name}-out1.csv files.
	DatasetsDir string

	// MinSupport is used when a request omits min_support.
	MinSupport int

	// Prune is the prune reference for form requests and API requests that
	// do not choose one.
	Prune miner.PruneReference

	// Source, if set, is consulted for names with no file.
	Source DatasetSource
}

// Server is the HTTP front end of the miner.
type Server struct {
	cfg     Config
	router  *chi.Mux
	server  *http.Server
	tmpl    *template.Template
	metrics *metrics
}

// NewServer creates a Server with its routes registered.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:     cfg,
		router:  chi.NewRouter(),
		tmpl:    template.Must(template.ParseFS(templateFS, "templates/index.html")),
		metrics: newMetrics(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleMineForm)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/rules", s.handleRulesAPI)
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.handler())
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("starting server", "addr", addr, "datasets_dir", s.cfg.DatasetsDir)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
