// Package server exposes validation, layout, stored diagrams and step
// playback sessions over HTTP.
//
// # Endpoints
//
//	GET    /healthz
//	POST   /api/v1/validate[?correct=true]
//	POST   /api/v1/correct
//	POST   /api/v1/layout
//	POST   /api/v1/diagrams
//	GET    /api/v1/diagrams[?type=free-body&limit=20]
//	GET    /api/v1/diagrams/{id}
//	DELETE /api/v1/diagrams/{id}
//	POST   /api/v1/sessions
//	GET    /api/v1/sessions/{id}
//	DELETE /api/v1/sessions/{id}
//	POST   /api/v1/sessions/{id}/{action}   next, previous, reset, auto, goto?step=N
//
// Every response is an [Envelope]. Errors carry the machine-readable codes
// of the errors package.
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

	errs "github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/steps"
	"github.com/matzehuels/diagramkit/pkg/store"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// sessionSweepInterval is how often expired sessions are destroyed.
const sessionSweepInterval = time.Minute

// Options configures a [Server].
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Layout holds the defaults for layout requests; request options
	// override them field by field.
	Layout pipeline.Options

	// Steps is the base configuration of playback sessions.
	Steps      steps.Options
	SessionTTL time.Duration

	MaxBodyBytes int64
}

// HTTPConfig configures [Server.ListenAndServe].
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	layout   pipeline.Options
	sessions *sessionRegistry
	maxBody  int64
	router   chi.Router
}

// New builds a server. Nil runner, store and logger get working defaults:
// an uncached runner, a memory store and a discarding logger.
func New(opts Options) *Server {
	if opts.Logger == nil {
		l := pipeline.Options{}
		l.SetDefaults()
		opts.Logger = l.Logger
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		runner:   opts.Runner,
		store:    opts.Store,
		logger:   opts.Logger,
		layout:   opts.Layout,
		sessions: newSessionRegistry(opts.SessionTTL, opts.Steps),
		maxBody:  opts.MaxBodyBytes,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/correct", s.handleCorrect)
		r.Post("/layout", s.handleLayout)

		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/", s.handleCreateDiagram)
			r.Get("/", s.handleListDiagrams)
			r.Get("/{id}", s.handleGetDiagram)
			r.Put("/{id}", s.handleReplaceDiagram)
			r.Delete("/{id}", s.handleDeleteDiagram)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Post("/{id}/{action}", s.handleSessionAction)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errs.ErrCodeNotFound, "no such endpoint", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errs.ErrCodeInvalidInput, "method not allowed", nil)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and destroys every playback session.
func (s *Server) ListenAndServe(ctx context.Context, cfg HTTPConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go s.sweepSessions(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close destroys all playback sessions.
func (s *Server) Close() {
	s.sessions.closeAll()
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.cleanup(); n > 0 {
				s.logger.Debug("expired sessions", "count", n)
			}
		}
	}
}
