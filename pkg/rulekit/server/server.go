// Package server exposes a rulekit Engine over HTTP.
//
// Routes:
//
//	POST /create_rule    {"rule_string": "age > 30"}          -> {"ast": tree}
//	POST /combine_rules  {"rules": ["age > 30", ...]}         -> {"ast": tree}
//	POST /evaluate_rule  {"combined_rule": tree, "data": {}}  -> {"result": value}
//	GET  /health                                              -> {"status": "ok"}
//	GET  /metrics        Prometheus exposition, when a handler is configured
//
// /create_rule also accepts a form-encoded rule_string field.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
)

// Server serves rule operations over HTTP.
type Server struct {
	engine   *rulekit.Engine
	settings config.Settings
	logger   *slog.Logger
	metrics  http.Handler
	router   *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// New builds a Server and its routes. A nil logger uses slog.Default().
func New(engine *rulekit.Engine, settings config.Settings, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:   engine,
		settings: settings,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = gin.New()
	s.router.Use(
		gin.CustomRecovery(recoverPanic),
		requestID(),
		otelgin.Middleware(settings.ServiceName),
		requestLogger(logger),
	)
	s.setupRoutes()
	return s
}

// setupRoutes registers every endpoint on the router.
func (s *Server) setupRoutes() {
	h := &handlers{engine: s.engine}

	s.router.POST("/create_rule", h.createRule)
	s.router.POST("/combine_rules", h.combineRules)
	s.router.POST("/evaluate_rule", h.evaluateRule)
	s.router.GET("/health", h.health)

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.settings.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.settings.ReadTimeout,
		ReadTimeout:       s.settings.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("rulekit server listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("rulekit server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
