package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchyard/pkg/config"
)

// CatalogMetrics tracks model catalog loads and hot reloads.
//
// Metrics:
//   - switchyard_router_catalog_reloads_total: Reload attempts by result
//   - switchyard_router_catalog_reload_duration_seconds: Time to parse and validate
//   - switchyard_router_catalog_models: Models in the active catalog
//   - switchyard_router_catalog_rules: Rules in the active catalog
//   - switchyard_router_catalog_last_reload_timestamp_seconds: Last successful reload
type CatalogMetrics struct {
	reloadsTotal   *prometheus.CounterVec
	reloadDuration prometheus.Histogram
	models         prometheus.Gauge
	rules          prometheus.Gauge
	lastReload     prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog load attempts by result",
			},
			[]string{"result"},
		),

		reloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reload_duration_seconds",
				Help:      "Time to load and validate the catalog in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),

		models: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_models",
				Help:      "Number of models in the active catalog",
			},
		),

		rules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_rules",
				Help:      "Number of routing rules in the active catalog",
			},
		),

		lastReload: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_last_reload_timestamp_seconds",
				Help:      "Unix time of the last successful catalog load",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		cm.reloadsTotal,
		cm.reloadDuration,
		cm.models,
		cm.rules,
		cm.lastReload,
	)

	return cm
}

// RecordReload records a catalog load attempt. On failure the gauges keep
// describing the previous catalog.
func (cm *CatalogMetrics) RecordReload(success bool, duration time.Duration, models, rules int) {
	cm.reloadDuration.Observe(duration.Seconds())
	if !success {
		cm.reloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	cm.reloadsTotal.WithLabelValues("success").Inc()
	cm.models.Set(float64(models))
	cm.rules.Set(float64(rules))
	cm.lastReload.SetToCurrentTime()
}
