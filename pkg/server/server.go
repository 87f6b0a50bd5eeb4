package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/switchyard/pkg/catalog"
	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
	"mercator-hq/switchyard/pkg/ratelimit"
	"mercator-hq/switchyard/pkg/routing"
	"mercator-hq/switchyard/pkg/security/auth"
	servertls "mercator-hq/switchyard/pkg/security/tls"
	"mercator-hq/switchyard/pkg/telemetry/health"
	"mercator-hq/switchyard/pkg/telemetry/tracing"
)

// HTTPMetrics receives per-request measurements.
type HTTPMetrics interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	HTTPInFlight(delta float64)
	RecordAuthFailure(reason string)
	RecordRateLimited(limit string)
}

// CatalogStatus reports the catalog in effect.
type CatalogStatus interface {
	Status() catalog.Status
}

// Deps are the components the HTTP API serves. Service is required; the
// rest are optional and their endpoints are omitted or report "disabled"
// when nil.
type Deps struct {
	Service *routing.Service
	Catalog CatalogStatus
	Journal journal.Storage
	Health  *health.Checker
	Version health.VersionInfo

	// Metrics records HTTP metrics; MetricsHandler serves the scrape endpoint.
	Metrics        HTTPMetrics
	MetricsHandler http.Handler
	MetricsPath    string

	Tracer *tracing.Tracer
	Logger *slog.Logger
}

// Server is the routing HTTP API server.
type Server struct {
	config     config.ServerConfig
	queryLimit config.QueryConfig
	deps       Deps
	handler    http.Handler
	logger     *slog.Logger

	keys    *auth.KeySet
	limiter *ratelimit.Registry

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server. The handler is built once and can be exercised
// without listening via Handler.
func New(cfg config.ServerConfig, queryLimits config.QueryConfig, deps Deps) (*Server, error) {
	if deps.Service == nil {
		return nil, errors.New("server: routing service is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Health == nil {
		deps.Health = health.New(0)
	}

	s := &Server{
		config:     cfg,
		queryLimit: queryLimits,
		deps:       deps,
		logger:     deps.Logger.With("component", "server"),
	}
	if cfg.Auth.Enabled {
		keys, err := auth.NewKeySet(cfg.Auth.Keys)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		if keys.Len() == 0 {
			return nil, errors.New("server: auth is enabled but no API keys are configured")
		}
		s.keys = keys
	}
	if cfg.RateLimit.Enabled {
		s.limiter = ratelimit.NewRegistry(cfg.RateLimit)
	}
	s.handler = s.setupRoutes()
	return s, nil
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully. With TLS enabled the certificate
// is loaded before listening and reloaded from disk while serving.
func (s *Server) Start(ctx context.Context) error {
	var tlsConfig *tls.Config
	if s.config.TLS.Enabled {
		var err error
		if tlsConfig, err = s.setupTLS(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.ListenAddress, err)
	}
	if tlsConfig != nil {
		ln = tls.NewListener(ln, tlsConfig)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) setupTLS(ctx context.Context) (*tls.Config, error) {
	c := s.config.TLS
	reloader := servertls.NewCertificateReloader(c.CertFile, c.KeyFile, c.ReloadInterval,
		servertls.WithLogger(s.logger.With("subsystem", "tls")),
	)
	if err := reloader.Start(ctx); err != nil {
		return nil, fmt.Errorf("load TLS certificate: %w", err)
	}
	tlsConfig, err := servertls.ServerConfig(c, reloader)
	if err != nil {
		return nil, fmt.Errorf("configure TLS: %w", err)
	}
	s.deps.Health.RegisterCheck("tls", reloader.Check)
	return tlsConfig, nil
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		ln.Close()
		return errors.New("server is already running")
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		MaxHeaderBytes:    s.config.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	srv := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting routing server",
			"address", ln.Addr().String(),
			"tls", s.config.TLS.Enabled,
			"auth", s.keys != nil,
			"rate_limit", s.limiter != nil,
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}
}

// Addr returns the listening address, or "" when not serving.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("routing server stopped")
	return nil
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpServer != nil
}
