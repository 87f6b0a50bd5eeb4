package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/routing"
	"mercator-hq/switchyard/pkg/telemetry/tracing"
)

// Metrics receives catalog reload measurements.
type Metrics interface {
	RecordCatalogReload(success bool, duration time.Duration, models, rules int)
}

// Status describes the catalog currently in effect.
type Status struct {
	Source    string    `json:"source"`
	Models    int       `json:"models"`
	Rules     int       `json:"rules"`
	LoadedAt  time.Time `json:"loaded_at"`
	Reloads   int64     `json:"reloads"`
	LastError string    `json:"last_error,omitempty"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics reports reloads to m.
func WithMetrics(m Metrics) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

// WithTracer traces reloads.
func WithTracer(t trace.Tracer) Option {
	return func(mgr *Manager) {
		if t != nil {
			mgr.tracer = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(mgr *Manager) {
		if l != nil {
			mgr.logger = l
		}
	}
}

// Manager owns the active router. Reload builds a complete new router from
// the catalog file and swaps it in atomically; on any error the previous
// router stays in effect. Readers never block.
type Manager struct {
	cfg     config.CatalogConfig
	opts    routing.Options
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer

	router atomic.Pointer[routing.Router]

	// mu serializes reloads and guards the status fields below.
	mu        sync.Mutex
	source    string
	loadedAt  time.Time
	reloads   int64
	lastError error
}

var _ routing.RouterProvider = (*Manager)(nil)

// NewManager loads the configured catalog and builds the initial router.
// An invalid catalog is a startup error.
func NewManager(cfg config.CatalogConfig, opts routing.Options, options ...Option) (*Manager, error) {
	m := &Manager{
		cfg:    cfg,
		opts:   opts,
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("switchyard/catalog"),
	}
	for _, o := range options {
		o(m)
	}
	m.logger = m.logger.With("component", "catalog.manager")

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}
	return m, nil
}

// Router returns the router currently in effect.
func (m *Manager) Router() *routing.Router {
	return m.router.Load()
}

// Reload rebuilds the router from the catalog source.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, span := m.tracer.Start(ctx, "catalog.Reload")
	defer span.End()

	start := time.Now()
	router, source, err := m.build()
	elapsed := time.Since(start)

	if err != nil {
		m.lastError = err
		tracing.SetErrorAttributes(span, err, "catalog")
		if m.metrics != nil {
			m.metrics.RecordCatalogReload(false, elapsed, 0, 0)
		}
		if m.router.Load() != nil {
			m.logger.Error("catalog reload failed, keeping previous catalog",
				"path", m.cfg.Path,
				"error", err,
			)
		}
		return err
	}

	nModels, nRules := len(router.ListModels()), len(router.ListRules())
	m.router.Store(router)
	m.source = source
	m.loadedAt = time.Now()
	m.reloads++
	m.lastError = nil

	tracing.NewAttributeBuilder().WithCatalog(source, nModels, nRules).Apply(span)
	if m.metrics != nil {
		m.metrics.RecordCatalogReload(true, elapsed, nModels, nRules)
	}
	m.logger.Info("catalog loaded",
		"source", source,
		"models", nModels,
		"rules", nRules,
		"default_model", router.Options().DefaultModel,
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}

func (m *Manager) build() (*routing.Router, string, error) {
	c, err := Load(m.cfg.Path)
	if err != nil {
		return nil, "", err
	}
	router, err := c.Build(m.opts)
	if err != nil {
		return nil, "", err
	}
	return router, c.Source, nil
}

// Status reports the catalog in effect and the outcome of the last reload.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{
		Source:   m.source,
		LoadedAt: m.loadedAt,
		Reloads:  m.reloads,
	}
	if r := m.router.Load(); r != nil {
		s.Models = len(r.ListModels())
		s.Rules = len(r.ListRules())
	}
	if m.lastError != nil {
		s.LastError = m.lastError.Error()
	}
	return s
}

// Check reports whether a router is in effect. Used by readiness probes.
func (m *Manager) Check(ctx context.Context) error {
	if m.router.Load() == nil {
		return errors.New("no catalog loaded")
	}
	return nil
}

// Watch reloads the catalog whenever its file changes, until ctx is
// cancelled. It returns ErrNoPath for the built-in catalog.
func (m *Manager) Watch(ctx context.Context) error {
	if m.cfg.Path == "" {
		return ErrNoPath
	}

	watcher, err := NewFileWatcher(m.cfg.Path, m.cfg.Debounce, m.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			m.logger.Error("failed to stop catalog watcher", "error", err)
		}
	}()

	return watcher.Watch(ctx, func() {
		_ = m.Reload(ctx)
	})
}
