// Package server exposes waveform generation over HTTP.
//
// Routes:
//
//	POST /api/generate   JSON modulation.Request -> JSON waveform
//	GET  /api/schemes    supported schemes with their default parameters
//	GET  /api/version    build version
//	GET  /healthz        liveness
//	GET  /metrics        Prometheus metrics
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/cwbudde/algo-modulation/internal/config"
	"github.com/cwbudde/algo-modulation/internal/logging"
	"github.com/cwbudde/algo-modulation/internal/observability"
)

// Version is reported by /api/version and overridden at link time.
var Version = "dev"

// Server serves the generation API.
type Server struct {
	cfg     config.ServerConfig
	log     logging.Logger
	metrics *observability.GenerationCollector
	router  *mux.Router
}

// New builds a server. A nil logger discards logs; a nil collector
// disables metrics recording.
func New(cfg config.ServerConfig, log logging.Logger, metrics *observability.GenerationCollector) *Server {
	if log == nil {
		log = logging.Noop()
	}
	s := &Server{cfg: cfg, log: log, metrics: metrics}
	s.router = s.setupMux()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMux() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestMiddleware)

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)

	// No /api subrouter: a subrouter answers a method mismatch with 404.
	r.HandleFunc("/api/generate", s.generateHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/schemes", s.schemesHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/version", s.versionHandler).Methods(http.MethodGet)

	r.NotFoundHandler = s.requestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	}))
	r.MethodNotAllowedHandler = s.requestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}))

	return r
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info(ctx, "modserver listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info(shutdownCtx, "modserver shutting down", logging.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusWriter records the response code for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, id := logging.EnsureRequestID(r.Context())
		w.Header().Set("X-Request-ID", id)

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		s.metrics.ObserveHTTP(r.Method, wrapped.status)
		s.log.Debug(ctx, "http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", wrapped.status),
			logging.Duration("elapsed", time.Since(start)))
	})
}
