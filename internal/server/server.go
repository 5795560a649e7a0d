package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Webhook is the part of the bot the HTTP server exposes
type Webhook interface {
	WebhookHandler(w http.ResponseWriter, r *http.Request)
	WebhookInfo() (tgbotapi.WebhookInfo, error)
}

// Server represents the HTTP server receiving Telegram webhooks
type Server struct {
	router *chi.Mux
	server *http.Server
	port   int
	logger zerolog.Logger
}

// New creates a new HTTP server instance. handlerTimeout is the longest a
// webhook request may take, normally the upstream timeout plus slack.
func New(port int, webhookPath string, hook Webhook, handlerTimeout time.Duration, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "server").Logger()

	r := chi.NewRouter()

	// Middleware order: RequestID → RealIP → access log → recovery
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		router: r,
		port:   port,
		logger: logger,
	}

	s.registerRoutes(webhookPath, hook)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: handlerTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info().
		Int("port", s.port).
		Str("addr", s.server.Addr).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server, waiting for in-flight
// webhook handlers
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger writes one access log line per request
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}
