package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchyard/pkg/config"
)

// JournalMetrics tracks the decision journal.
//
// Metrics:
//   - switchyard_router_journal_records_total: Records by result (written, failed, dropped)
//   - switchyard_router_journal_write_duration_seconds: Storage write time
//   - switchyard_router_journal_queue_depth: Records waiting to be written
//   - switchyard_router_journal_pruned_total: Records removed by retention
type JournalMetrics struct {
	recordsTotal  *prometheus.CounterVec
	writeDuration prometheus.Histogram
	queueDepth    prometheus.Gauge
	prunedTotal   prometheus.Counter
}

// NewJournalMetrics creates and registers journal metrics with the provided registry.
func NewJournalMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *JournalMetrics {
	jm := &JournalMetrics{
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "journal_records_total",
				Help:      "Total number of journal records by result",
			},
			[]string{"result"},
		),

		writeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "journal_write_duration_seconds",
				Help:      "Time to write a journal record in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "journal_queue_depth",
				Help:      "Number of journal records waiting to be written",
			},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "journal_pruned_total",
				Help:      "Total number of journal records removed by retention",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		jm.recordsTotal,
		jm.writeDuration,
		jm.queueDepth,
		jm.prunedTotal,
	)

	return jm
}

// RecordWrite records the outcome of a journal write.
func (jm *JournalMetrics) RecordWrite(result string, duration time.Duration) {
	jm.recordsTotal.WithLabelValues(result).Inc()
	if duration > 0 {
		jm.writeDuration.Observe(duration.Seconds())
	}
}

// UpdateQueueDepth sets the current queue depth.
func (jm *JournalMetrics) UpdateQueueDepth(depth int) {
	jm.queueDepth.Set(float64(depth))
}

// RecordPrune records records removed by retention.
func (jm *JournalMetrics) RecordPrune(deleted int64) {
	if deleted > 0 {
		jm.prunedTotal.Add(float64(deleted))
	}
}
