// Package server exposes the pipeline as an HTTP API.
//
// Routes:
//
//	POST /api/v1/generate          {"text": "..."} → diagram JSON
//	POST /api/v1/export/{format}   diagram JSON → encoded document
//	GET  /api/v1/vocabulary        keyword → category map
//	GET  /healthz                  liveness probe
//	GET  /metrics                  Prometheus metrics, when enabled
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blockgen/pkg/generate"
	"github.com/matzehuels/blockgen/pkg/metrics"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

// Default limits, used when Options leaves them zero.
const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr         string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Vocabulary replaces the built-in vocabulary when non-nil.
	Vocabulary generate.Vocabulary

	// Metrics enables GET /metrics when non-nil.
	Metrics *metrics.Registry

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	opts    Options
	logger  *log.Logger
	handler http.Handler
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{runner: runner, opts: opts, logger: opts.Logger}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limitBody(s.opts.MaxBodyBytes))
		r.Post("/generate", s.handleGenerate)
		r.Post("/export/{format}", s.handleExport)
		r.Get("/vocabulary", s.handleVocabulary)
	})
	return r
}

// ListenAndServe serves on opts.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
