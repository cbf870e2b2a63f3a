// Package gateway is the validating tier in front of the API server.
//
// REQUEST FLOW:
//
//	client → gateway: header, path, query and body checks
//	       → server:  business rules and persistence
//
// A request that fails a check is answered here with 400 and never reaches
// the server. Everything else is forwarded unchanged through a reverse proxy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/availability"
	"github.com/sakif/shareit/internal/dto"
	"github.com/sakif/shareit/internal/handler"
	"github.com/sakif/shareit/internal/middleware"
)

type Config struct {
	Port      int
	ServerURL string
}

type Gateway struct {
	router   *chi.Mux
	proxy    *httputil.ReverseProxy
	validate *dto.Validator
	config   Config
	logger   *slog.Logger
}

// New builds a gateway forwarding to cfg.ServerURL. now is the clock for
// the "start in the future" check; nil means time.Now.
func New(cfg Config, logger *slog.Logger, now func() time.Time) (*Gateway, error) {
	upstream, err := url.Parse(cfg.ServerURL)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("gateway: invalid server url %q", cfg.ServerURL)
	}

	g := &Gateway{
		router:   chi.NewRouter(),
		proxy:    newProxy(upstream, logger),
		validate: dto.NewValidator(now),
		config:   cfg,
		logger:   logger,
	}
	g.setupRoutes()
	return g, nil
}

// newProxy forwards to upstream, passing the request id along so both
// tiers log the same one.
func newProxy(upstream *url.URL, logger *slog.Logger) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(upstream)

	direct := proxy.Director
	proxy.Director = func(r *http.Request) {
		direct(r)
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			r.Header.Set(chimiddleware.RequestIDHeader, id)
		}
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("upstream request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(handler.ErrorResponse{Error: "server unavailable"})
	}
	return proxy
}

// check inspects a request before it is forwarded.
type check func(r *http.Request) error

func (g *Gateway) setupRoutes() {
	g.router.Use(chimiddleware.RequestID)
	g.router.Use(chimiddleware.RealIP)
	g.router.Use(chimiddleware.Recoverer)
	g.router.Use(middleware.Logger(g.logger))

	g.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	id := pathID("id")

	g.router.Route("/users", func(r chi.Router) {
		r.Post("/", g.forward(body[dto.UserCreate](g.validate)))
		r.Get("/", g.forward())
		r.Get("/{id}", g.forward(id))
		r.Patch("/{id}", g.forward(id, body[dto.UserUpdate](g.validate)))
		r.Delete("/{id}", g.forward(id))
	})

	g.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSharer)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", g.forward(body[dto.ItemCreate](g.validate)))
			r.Get("/", g.forward(pagination))
			r.Get("/search", g.forward(searchText, pagination))
			r.Get("/{id}", g.forward(id))
			r.Patch("/{id}", g.forward(id, body[dto.ItemUpdate](g.validate)))
			r.Delete("/{id}", g.forward(id))
			r.Post("/{id}/comment", g.forward(id, body[dto.CommentCreate](g.validate)))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", g.forward(body[dto.BookingCreate](g.validate)))
			r.Get("/", g.forward(state, pagination))
			r.Get("/owner", g.forward(state, pagination))
			r.Get("/{id}", g.forward(id))
			r.Patch("/{id}", g.forward(id, approved))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", g.forward(body[dto.RequestCreate](g.validate)))
			r.Get("/", g.forward())
			r.Get("/all", g.forward(pagination))
			r.Get("/{id}", g.forward(id))
		})
	})
}

// forward runs checks in order and proxies the request if all pass.
func (g *Gateway) forward(checks ...check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, c := range checks {
			if err := c(r); err != nil {
				handler.WriteError(w, err)
				return
			}
		}
		g.proxy.ServeHTTP(w, r)
	}
}

func pathID(name string) check {
	return func(r *http.Request) error {
		_, err := dto.ParseID(name, chi.URLParam(r, name))
		return err
	}
}

func pagination(r *http.Request) error {
	q := r.URL.Query()
	_, err := dto.ParsePage(q.Get("from"), q.Get("size"))
	return err
}

func state(r *http.Request) error {
	_, err := availability.ParseState(r.URL.Query().Get("state"))
	return err
}

func approved(r *http.Request) error {
	_, err := dto.ParseApproved(r.URL.Query().Get("approved"))
	return err
}

// searchText requires the text parameter; an empty value is allowed and
// yields an empty result from the server.
func searchText(r *http.Request) error {
	if _, ok := r.URL.Query()["text"]; !ok {
		return apperror.ValidationFailed("text", "text parameter is required")
	}
	return nil
}

// maxBody caps request bodies read for validation.
const maxBody = 1 << 20

// body decodes and validates the JSON body as T, then rewinds it so the
// proxy forwards the original bytes. Bodies over maxBody are rejected.
func body[T any](val *dto.Validator) check {
	return func(r *http.Request) error {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
		r.Body.Close()
		if err != nil {
			return apperror.ValidationFailed("body", "unreadable request body")
		}
		if len(raw) > maxBody {
			return apperror.ValidationFailed("body", "request body too large")
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))
		r.ContentLength = int64(len(raw))

		var dst T
		return val.Decode(bytes.NewReader(raw), &dst)
	}
}

// Handler exposes the router, e.g. for httptest.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Start serves until SIGINT/SIGTERM, then drains for up to 30 seconds.
func (g *Gateway) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", g.config.Port),
		Handler:      g.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		g.logger.Info("gateway starting",
			slog.Int("port", g.config.Port),
			slog.String("upstream", strings.TrimRight(g.config.ServerURL, "/")),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("gateway error: %w", err)
		}

	case sig := <-quit:
		g.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		g.logger.Info("gateway stopped gracefully")
	}
	return nil
}
