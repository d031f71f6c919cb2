// Package server exposes conversion over HTTP.
//
// Routes:
//   - POST /convert: convert a markdown file in the data directory, or
//     inline markdown returned as application/pdf
//   - GET /health: liveness probe
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-cheatmark"
	"github.com/alnah/go-cheatmark/internal/logging"
)

// Defaults for Options zero values.
const (
	DefaultMaxBodyBytes    = 10 << 20
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// Converter is the conversion backend. *cheatmark.ConverterPool and
// *cheatmark.Converter satisfy it.
type Converter interface {
	Convert(ctx context.Context, input cheatmark.Input) (*cheatmark.ConvertResult, error)
}

// Options configures a Server.
type Options struct {
	// DataDir holds the markdown files named by path requests and receives
	// their PDFs and error logs.
	DataDir string

	// MaxBodyBytes limits request bodies (default DefaultMaxBodyBytes).
	MaxBodyBytes int64

	// Logger receives one line per request (default: discard).
	Logger *log.Logger
}

// Server handles conversion requests.
type Server struct {
	conv   Converter
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a Server backed by conv.
func New(conv Converter, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{conv: conv, opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)
	r.With(middleware.AllowContentType("application/json")).Post("/convert", s.handleConvert)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully, letting in-flight conversions finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
