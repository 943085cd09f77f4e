// Package api serves the converters over HTTP.
//
// # Endpoints
//
//	POST /v1/forward    program JSON → grid document
//	POST /v1/reverse    grid document or bare snapshot → trees
//	POST /v1/roundtrip  program JSON → per-network equivalence report
//	GET  /healthz       liveness and build information
//	GET  /metrics       Prometheus metrics
//
// Conversion options are passed as query parameters: ids=sequential|uuid,
// normalize=false and refresh=true.
//
// Errors are returned as {"code": "...", "message": "..."} with the codes of
// package errors. Invalid input maps to 400, oversized bodies to 413.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/laddergrid/pkg/observability"
	"github.com/matzehuels/laddergrid/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Runner executes conversions. Nil uses an uncached runner.
	Runner *pipeline.Runner

	// Logger receives request logs. Nil uses log.Default().
	Logger *log.Logger

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// Gatherer backs /metrics. Nil uses prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Defaults are applied to requests that do not set an option.
	Defaults pipeline.Options
}

// Server is the HTTP API. It is safe for concurrent use.
type Server struct {
	router   chi.Router
	runner   *pipeline.Runner
	logger   *log.Logger
	maxBody  int64
	defaults pipeline.Options
}

// NewServer builds the router.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		router:   chi.NewRouter(),
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		maxBody:  cfg.MaxBodyBytes,
		defaults: cfg.Defaults,
	}
	s.routes(cfg.Gatherer)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.logger.Info("HTTP API server stopping")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes(g prometheus.Gatherer) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.observe)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	s.router.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/forward", s.handleForward)
		r.Post("/reverse", s.handleReverse)
		r.Post("/roundtrip", s.handleRoundTrip)
	})
}

// observe logs every request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		next.ServeHTTP(w, r)
	})
}
