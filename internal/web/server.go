package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"traceroute-monitor/internal/models"
	"traceroute-monitor/internal/report"
)

// Server serves the status page and a small JSON API
type Server struct {
	db     models.Database
	gen    *report.Generator
	names  []string
	port   int
	logger *zap.Logger
	srv    *http.Server
}

// New creates a new web server. names fixes the connections shown; when it
// is empty every connection found in the database is shown.
func New(db models.Database, gen *report.Generator, names []string, port int, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		gen:    gen,
		names:  names,
		port:   port,
		logger: logger,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the HTTP handler
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.AllowAll().Handler)
		r.Get("/connections", s.handleConnections)
		r.Get("/averages", s.handleAverages)
		r.Get("/results", s.handleResults)
	})

	return r
}

// Start serves until Stop is called. It returns nil once the server has
// been stopped, even when Stop ran first.
func (s *Server) Start() error {
	s.logger.Info("Web server starting", zap.Int("port", s.port))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// connections returns the names to report on
func (s *Server) connections() ([]string, error) {
	if len(s.names) > 0 {
		return s.names, nil
	}
	return s.db.ConnectionNames()
}
