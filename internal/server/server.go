// Package server exposes the canvas registry and the command sync
// protocol over HTTP. State queries and mutations go through a JSON
// API; command broadcast to canvas clients rides a server-sent event
// stream, with acknowledgments posted back on a separate endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/canvastack/internal/config"
	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/command"
)

// Server wires the registry, broadcaster, and tracker behind an HTTP
// listener.
type Server struct {
	registry    *canvas.Registry
	broadcaster *command.Broadcaster
	tracker     *command.Tracker
	logger      *log.Logger

	addr            string
	shutdownTimeout time.Duration
	sweepInterval   time.Duration
}

// New builds a server from the given configuration. The registry,
// broadcaster, and tracker are constructed here so every piece shares
// the same logger.
func New(cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	tracker := command.NewTracker(cfg.Sync.AckTTL.Duration, logger)
	broadcaster := command.NewBroadcaster(tracker, logger)
	registry := canvas.NewRegistry(cfg.CanvasSize(), cfg.Settings(), broadcaster, logger)

	return &Server{
		registry:        registry,
		broadcaster:     broadcaster,
		tracker:         tracker,
		logger:          logger,
		addr:            cfg.Server.Addr,
		shutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
		sweepInterval:   cfg.Sync.SweepInterval.Duration,
	}
}

// Registry returns the server's container registry.
func (s *Server) Registry() *canvas.Registry { return s.registry }

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/events", s.handleEvents)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/command", s.handleCommand)
		r.Post("/ack", s.handleAck)
		r.Get("/commands/{id}", s.handleCommandStatus)
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully. The
// acknowledgment sweeper runs alongside the listener for its lifetime.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go s.tracker.RunSweeper(sweepCtx, s.sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down", "timeout", s.shutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request with method, path, status,
// and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
