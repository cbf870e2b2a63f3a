// Package server wires the ShareIt HTTP API: store, services, handlers,
// middleware and routes.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go: config → logger → event publisher → server.New
//	server.New: sqlite.DB → services → handlers → routes
//
// Everything is assembled here, the composition root, so handlers never see
// the store and services never see HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/shareit/internal/dto"
	"github.com/sakif/shareit/internal/events"
	"github.com/sakif/shareit/internal/handler"
	"github.com/sakif/shareit/internal/middleware"
	sqliteRepo "github.com/sakif/shareit/internal/repository/sqlite"
	"github.com/sakif/shareit/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string
}

// Server owns the database connection and the router. The DB is closed when
// Start returns.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the store and builds the router.
//
// now is the clock used by services and the validator; nil means time.Now.
// The publisher receives booking lifecycle events and stays owned by the
// caller.
func New(cfg Config, logger *slog.Logger, publisher events.Publisher, now func() time.Time) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(publisher, now)
	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	GET    /healthz
//	POST   /users                    GET /users, /users/{id}
//	PATCH  /users/{id}               DELETE /users/{id}
//	POST   /items                    GET /items, /items/search, /items/{id}
//	PATCH  /items/{id}               DELETE /items/{id}
//	POST   /items/{id}/comment
//	POST   /bookings                 GET /bookings, /bookings/owner, /bookings/{id}
//	PATCH  /bookings/{id}?approved=
//	POST   /requests                 GET /requests, /requests/all, /requests/{id}
//
// Everything except /users and /healthz requires X-Sharer-User-Id.
func (s *Server) setupRoutes(publisher events.Publisher, now func() time.Time) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	validate := dto.NewValidator(now)

	users := handler.NewUserHandler(service.NewUserService(s.db, s.logger), validate)
	items := handler.NewItemHandler(
		service.NewItemService(s.db, s.logger, now),
		service.NewCommentService(s.db, s.logger, now),
		validate,
	)
	bookings := handler.NewBookingHandler(service.NewBookingService(s.db, publisher, s.logger, now), validate)
	requests := handler.NewRequestHandler(service.NewRequestService(s.db, s.logger, now), validate)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", users.HandleCreate)
		r.Get("/", users.HandleList)
		r.Get("/{id}", users.HandleGet)
		r.Patch("/{id}", users.HandleUpdate)
		r.Delete("/{id}", users.HandleDelete)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSharer)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", items.HandleCreate)
			r.Get("/", items.HandleList)
			r.Get("/search", items.HandleSearch)
			r.Get("/{id}", items.HandleGet)
			r.Patch("/{id}", items.HandleUpdate)
			r.Delete("/{id}", items.HandleDelete)
			r.Post("/{id}/comment", items.HandleComment)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookings.HandleCreate)
			r.Get("/", bookings.HandleListForBooker)
			r.Get("/owner", bookings.HandleListForOwner)
			r.Get("/{id}", bookings.HandleGet)
			r.Patch("/{id}", bookings.HandleUpdateStatus)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", requests.HandleCreate)
			r.Get("/", requests.HandleListOwn)
			r.Get("/all", requests.HandleListOthers)
			r.Get("/{id}", requests.HandleGet)
		})
	})
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on return.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
