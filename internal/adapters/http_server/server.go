package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	defaultRequestTimeout = 15 * time.Second
	readyCheckTimeout     = 2 * time.Second
	shutdownGrace         = 10 * time.Second
)

// Check reports whether a backing store is reachable.
type Check func(ctx context.Context) error

type Server struct {
	mux     *chi.Mux
	timeout time.Duration
	checks  map[string]Check
}

type Option func(*Server)

// WithRequestTimeout bounds every request; zero keeps the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithReadiness registers a dependency checked by GET /readyz.
func WithReadiness(name string, c Check) Option {
	return func(s *Server) { s.checks[name] = c }
}

func New(opts ...Option) *Server {
	s := &Server{mux: chi.NewRouter(), timeout: defaultRequestTimeout, checks: map[string]Check{}}
	for _, o := range opts {
		o(s)
	}

	// all middlewares go here, before any routes are added
	s.mux.Use(chimw.RealIP)
	s.mux.Use(chimw.RequestID)
	s.mux.Use(chimw.Recoverer)
	s.mux.Use(Timeout(s.timeout))
	s.mux.Use(Metrics)
	s.mux.Use(Logger(log.Logger))

	s.mux.Get("/readyz", s.ready)
	return s
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

// ready answers 503 naming every failing dependency.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for n := range s.checks {
		names = append(names, n)
	}
	sort.Strings(names)

	failed := map[string]string{}
	for _, n := range names {
		if err := s.checks[n](ctx); err != nil {
			failed[n] = err.Error()
			log.Warn().Err(err).Str("dependency", n).Msg("readiness check failed")
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("API listening")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
