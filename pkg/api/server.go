package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archgraph/pkg/config"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/session"
	"github.com/matzehuels/archgraph/pkg/store"
)

// maxBodyBytes bounds request bodies, including synthesis inputs.
const maxBodyBytes = 8 << 20

// Options wires a Server to its collaborators. Store is required.
type Options struct {
	Store   store.Store
	Runner  *pipeline.Runner
	Logger  *log.Logger
	Layout  layout.Config
	Session session.Options
	// AllowedOrigin enables CORS for browser editors. Empty disables it.
	AllowedOrigin string
}

// Server is the HTTP editor API.
type Server struct {
	store    store.Store
	sessions *session.Manager
	runner   *pipeline.Runner
	layout   layout.Config
	logger   *log.Logger
	router   chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	cfg := opts.Layout
	if cfg == (layout.Config{}) {
		cfg = layout.DefaultConfig()
	}
	sessOpts := opts.Session
	if sessOpts.Logger == nil {
		sessOpts.Logger = logger
	}

	s := &Server{
		store:    opts.Store,
		sessions: session.NewManager(opts.Store, sessOpts),
		runner:   runner,
		layout:   cfg,
		logger:   logger,
	}
	s.router = s.routes(opts.AllowedOrigin)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions exposes the session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }

// Close releases open sessions. Unsaved edits are discarded.
func (s *Server) Close() {
	s.sessions.Close()
}

func (s *Server) routes(allowedOrigin string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if allowedOrigin != "" {
		r.Use(cors(allowedOrigin))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1/graphs", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/flow", s.handleFlow)
			r.Get("/status", s.handleStatus)
			r.Post("/save", s.handleSave)
			r.Post("/relayout", s.handleRelayout)
			r.Post("/changes", s.handleChanges)
			r.Get("/export.{format}", s.handleExport)

			r.Post("/nodes", s.handleAddNode)
			r.Patch("/nodes/{nodeID}", s.handleEditNode)
			r.Delete("/nodes/{nodeID}", s.handleDeleteNode)
			r.Post("/nodes/{nodeID}/duplicate", s.handleDuplicateNode)
			r.Put("/nodes/{nodeID}/position", s.handleMoveNode)

			r.Post("/edges", s.handleConnect)
			r.Patch("/edges/{edgeID}", s.handleRelabelEdge)
			r.Delete("/edges/{edgeID}", s.handleDeleteEdge)
		})
	})
	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg config.Server) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
