package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchyard/pkg/config"
)

// RoutingMetrics tracks routing decisions and query analysis.
//
// Metrics:
//   - switchyard_router_decisions_total: Decisions by branch, model, provider
//   - switchyard_router_decision_duration_seconds: Analyze plus decide time
//   - switchyard_router_decision_confidence: Confidence distribution by branch
//   - switchyard_router_rule_matches_total: Wins per rule
//   - switchyard_router_ignored_preferences_total: Unknown model preferences
//   - switchyard_router_analyses_total: Analyses by content type and complexity
//   - switchyard_router_analysis_duration_seconds: Analysis time
type RoutingMetrics struct {
	decisionsTotal     *prometheus.CounterVec
	decisionDuration   *prometheus.HistogramVec
	decisionConfidence *prometheus.HistogramVec
	ruleMatchesTotal   *prometheus.CounterVec
	ignoredPreferences prometheus.Counter
	analysesTotal      *prometheus.CounterVec
	analysisDuration   prometheus.Histogram
}

// NewRoutingMetrics creates and registers routing metrics with the provided registry.
func NewRoutingMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RoutingMetrics {
	rm := &RoutingMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of routing decisions",
			},
			[]string{"branch", "model", "provider"},
		),

		decisionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decision_duration_seconds",
				Help:      "Time to analyze a query and select a model, in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"branch"},
		),

		decisionConfidence: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decision_confidence",
				Help:      "Confidence reported on routing decisions",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"branch"},
		),

		ruleMatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_matches_total",
				Help:      "Total number of decisions made by each rule",
			},
			[]string{"rule_id"},
		),

		ignoredPreferences: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ignored_preferences_total",
				Help:      "Total number of model preferences ignored because the model is not registered",
			},
		),

		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "analyses_total",
				Help:      "Total number of query analyses",
			},
			[]string{"content_type", "complexity"},
		),

		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "analysis_duration_seconds",
				Help:      "Time to analyze a query, in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		rm.decisionsTotal,
		rm.decisionDuration,
		rm.decisionConfidence,
		rm.ruleMatchesTotal,
		rm.ignoredPreferences,
		rm.analysesTotal,
		rm.analysisDuration,
	)

	return rm
}

// RecordDecision records a routing decision.
func (rm *RoutingMetrics) RecordDecision(branch, model, provider, ruleID string, confidence float64, duration time.Duration) {
	rm.decisionsTotal.WithLabelValues(branch, model, provider).Inc()
	rm.decisionDuration.WithLabelValues(branch).Observe(duration.Seconds())
	rm.decisionConfidence.WithLabelValues(branch).Observe(confidence)
	if ruleID != "" {
		rm.ruleMatchesTotal.WithLabelValues(ruleID).Inc()
	}
}

// RecordIgnoredPreference records an unknown model preference.
func (rm *RoutingMetrics) RecordIgnoredPreference() {
	rm.ignoredPreferences.Inc()
}

// RecordAnalysis records a query analysis.
func (rm *RoutingMetrics) RecordAnalysis(contentType, complexity string, duration time.Duration) {
	rm.analysesTotal.WithLabelValues(contentType, complexity).Inc()
	rm.analysisDuration.Observe(duration.Seconds())
}
