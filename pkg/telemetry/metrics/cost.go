package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchyard/pkg/config"
)

// CostMetrics tracks estimated cost of routed queries. No request is ever
// sent to a model, so these are estimates, not spend.
//
// Metrics:
//   - switchyard_router_estimated_cost_usd_total: Sum of estimates by provider and model
//   - switchyard_router_estimated_cost_usd: Estimate distribution by provider
type CostMetrics struct {
	// Total estimated cost counter (in USD)
	costTotal *prometheus.CounterVec

	// Estimated cost per decision histogram (in USD)
	costPerDecision *prometheus.HistogramVec
}

// NewCostMetrics creates and registers cost metrics with the provided registry.
func NewCostMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CostMetrics {
	cm := &CostMetrics{
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimated_cost_usd_total",
				Help:      "Total estimated cost in USD by provider and model",
			},
			[]string{"provider", "model"},
		),

		costPerDecision: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimated_cost_usd",
				Help:      "Estimated cost distribution per routing decision in USD",
				Buckets:   cfg.CostBuckets,
			},
			[]string{"provider"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		cm.costTotal,
		cm.costPerDecision,
	)

	return cm
}

// RecordEstimate records the estimated cost of one decision. Negative
// estimates are ignored; counters cannot decrease.
func (cm *CostMetrics) RecordEstimate(provider, model string, cost float64) {
	if cost < 0 {
		return
	}
	cm.costTotal.WithLabelValues(provider, model).Add(cost)
	cm.costPerDecision.WithLabelValues(provider).Observe(cost)
}
