package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/rackpulse/rackpulse/pkg/appliance"
	"github.com/rackpulse/rackpulse/pkg/metrics"
	"github.com/rackpulse/rackpulse/pkg/serializer"
	"github.com/rackpulse/rackpulse/pkg/trend"
)

// Engine is the server's view of the reconciliation engine.
type Engine interface {
	CurrentSnapshot(ctx context.Context) (*metrics.Snapshot, error)
	Trends(window time.Duration) map[string]trend.Series
	Ready() bool
}

// StatusProvider exposes the appliance connection state for /v1/status.
type StatusProvider interface {
	Status() appliance.Status
}

// Server serves the polled dashboard API over the engine's snapshot cache.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	engine      Engine
	status      StatusProvider
}

// New creates a server over the given engine and appliance status source.
func New(config *Config, engine Engine, status StatusProvider) *Server {
	if config == nil {
		config = NewConfig()
	}

	s := &Server{
		config:      config,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
		engine:      engine,
		status:      status,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler:           s.setupRoutes(),
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Default handler
	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints with middleware
	mux.HandleFunc("/v1/snapshot", s.withMiddleware(s.handleSnapshot))
	mux.HandleFunc("/v1/trends", s.withMiddleware(s.handleTrends))
	mux.HandleFunc("/v1/status", s.withMiddleware(s.handleStatus))

	return mux
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Ready:     s.engine.Ready(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes: []string{
			"GET /v1/snapshot",
			"GET /v1/trends",
			"GET /v1/status",
			"GET /health",
			"GET /ready",
			"GET /metrics",
		},
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("server listening", "address", s.httpServer.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	return s.httpServer.Shutdown(shutdownCtx)
}
