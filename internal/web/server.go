// Package web serves the server-rendered admin console: a layout shell with
// navigation, sidebar and footer around the home, users and posts pages.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/logging"
	"github.com/fivetwenty-io/crudadmin/internal/metrics"
	"github.com/fivetwenty-io/crudadmin/internal/store"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// Static errors for server construction.
var (
	ErrUsersStoreRequired = errors.New("users store is required")
	ErrPostsStoreRequired = errors.New("posts store is required")
)

// Config holds the dependencies of the console.
type Config struct {
	Users   *store.Users
	Posts   *store.Posts
	Loading *admin.PendingCounter
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// Server renders the console.
type Server struct {
	users     *store.Users
	posts     *store.Posts
	loading   *admin.PendingCounter
	metrics   *metrics.Collector
	logger    *zap.Logger
	templates *templates
}

// NewServer creates a console server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Users == nil {
		return nil, ErrUsersStoreRequired
	}

	if cfg.Posts == nil {
		return nil, ErrPostsStoreRequired
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	loading := cfg.Loading
	if loading == nil {
		loading = admin.NewPendingCounter()
	}

	return &Server{
		users:     cfg.Users,
		posts:     cfg.Posts,
		loading:   loading,
		metrics:   cfg.Metrics,
		logger:    logger,
		templates: tmpl,
	}, nil
}

// Handler returns the console router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(RequestLogger(s.logger))

	if s.metrics != nil {
		router.Use(s.metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	router.Get("/health", s.health)
	router.Get("/status/pending", s.pendingStatus)
	router.Post("/layout/sidebar", s.toggleSidebar)

	router.Get("/", s.home)

	router.Route("/users", func(r chi.Router) {
		r.Get("/", s.listUsers)
		r.Post("/", s.createUser)
		r.Post("/{id}", s.updateUser)
		r.Post("/{id}/delete", s.deleteUser)
	})

	router.Route("/posts", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/", s.createPost)
		r.Post("/{id}", s.updatePost)
		r.Post("/{id}/delete", s.deletePost)
	})

	router.NotFound(s.notFound)

	return router
}

// ListenAndServe serves the console on addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve serves the console on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting console", zap.String("address", listener.Addr().String()))

		err := srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving console: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down console")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ServerShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutting down console: %w", err)
	}

	return nil
}

// adminLogger adapts the server logger for stores and forms.
func (s *Server) adminLogger() admin.Logger {
	return logging.NewAdapter(s.logger)
}
