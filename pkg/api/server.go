// Package api exposes the positioning engines over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness probe
//	GET  /version               build information
//	POST /v1/layout             layered layout of one graph
//	POST /v1/layout/batch       layered layout of several graphs
//	POST /v1/simulate           headless force simulation
//	POST /v1/simulate/stream    force simulation streamed as NDJSON frames
//
// Request and response bodies are JSON. Failures are reported as
// {"error": {"code": ..., "message": ...}} with a status derived from the
// error code.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphpos/pkg/observability"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

// Defaults for Server.
const (
	DefaultAddr         = ":8080"
	DefaultTimeout      = 60 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	shutdownGrace       = 10 * time.Second
)

// Server serves the HTTP API on top of a pipeline.Runner.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Timeout bounds non-streaming requests.
	Timeout time.Duration

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
}

// New creates a server with default limits. A nil runner gets an uncached
// one; a nil logger uses log.Default().
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		Runner:       runner,
		Logger:       logger,
		Timeout:      DefaultTimeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.Timeout))
			r.Post("/layout", s.handleLayout)
			r.Post("/layout/batch", s.handleLayoutBatch)
			r.Post("/simulate", s.handleSimulate)
		})
		r.Post("/simulate/stream", s.handleStream)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// logRequests logs every request and fires the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.Logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed)
	})
}
