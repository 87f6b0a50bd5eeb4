package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/switchyard/pkg/config"
)

// Collector is the main orchestrator for all Prometheus metrics in Switchyard.
// It manages metric registration and provides a unified interface for
// recording metrics across all components. It satisfies
// routing.MetricsRecorder.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// HTTP request metrics
	httpMetrics *HTTPMetrics

	// Routing decision metrics
	routingMetrics *RoutingMetrics

	// Estimated cost metrics
	costMetrics *CostMetrics

	// Catalog reload metrics
	catalogMetrics *CatalogMetrics

	// Decision journal metrics
	journalMetrics *JournalMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry with Go and
// process collectors is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "switchyard",
//		Subsystem: "router",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
	}
	if len(cfg.CostBuckets) == 0 {
		cfg.CostBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000), // Max 10K unique label sets
	}

	// Initialize metric subsystems
	c.httpMetrics = NewHTTPMetrics(cfg, registry)
	c.routingMetrics = NewRoutingMetrics(cfg, registry)
	c.costMetrics = NewCostMetrics(cfg, registry)
	c.catalogMetrics = NewCatalogMetrics(cfg, registry)
	c.journalMetrics = NewJournalMetrics(cfg, registry)

	return c
}

// RecordDecision records a routing decision.
//
// Parameters:
//   - branch: "preference", "rule" or "fallback"
//   - model, provider: the selected model
//   - ruleID: the matched rule, empty unless branch is "rule"
//   - confidence: decision confidence in [0,1]
//   - cost: estimated cost in USD
//   - duration: analyze plus decide time
func (c *Collector) RecordDecision(branch, model, provider, ruleID string, confidence, cost float64, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	// Models come from catalog files, so bound their label space.
	labelSet := fmt.Sprintf("decision:%s:%s:%s", branch, model, provider)
	if !c.cardinalityLimiter.Allow(labelSet) {
		model = "other"
	}

	c.routingMetrics.RecordDecision(branch, model, provider, ruleID, confidence, duration)
	c.costMetrics.RecordEstimate(provider, model, cost)
}

// RecordIgnoredPreference records an unknown model preference.
func (c *Collector) RecordIgnoredPreference() {
	if !c.config.Enabled {
		return
	}

	c.routingMetrics.RecordIgnoredPreference()
}

// RecordAnalysis records a query analysis.
func (c *Collector) RecordAnalysis(contentType, complexity string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.routingMetrics.RecordAnalysis(contentType, complexity, duration)
}

// RecordHTTPRequest records a served HTTP request.
//
// Parameters:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/v1/route"), never the raw path
//   - status: HTTP status code
//   - duration: time to serve the request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.httpMetrics.RecordRequest(method, route, status, duration)
}

// HTTPInFlight adjusts the in-flight request gauge by delta.
func (c *Collector) HTTPInFlight(delta float64) {
	if !c.config.Enabled {
		return
	}

	c.httpMetrics.inFlight.Add(delta)
}

// RecordAuthFailure records a rejected API key. reason is "missing",
// "invalid" or "disabled".
func (c *Collector) RecordAuthFailure(reason string) {
	if !c.config.Enabled {
		return
	}

	c.httpMetrics.authFailures.WithLabelValues(reason).Inc()
}

// RecordRateLimited records a request rejected by the named limit.
func (c *Collector) RecordRateLimited(limit string) {
	if !c.config.Enabled {
		return
	}

	c.httpMetrics.rateLimited.WithLabelValues(limit).Inc()
}

// RecordCatalogReload records a catalog load or reload attempt. models and
// rules are the active counts after the attempt.
func (c *Collector) RecordCatalogReload(success bool, duration time.Duration, models, rules int) {
	if !c.config.Enabled {
		return
	}

	c.catalogMetrics.RecordReload(success, duration, models, rules)
}

// RecordJournalWrite records the outcome of a journal write.
//
// Parameters:
//   - result: "written", "failed" or "dropped"
//   - duration: storage write time (zero for dropped records)
func (c *Collector) RecordJournalWrite(result string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.journalMetrics.RecordWrite(result, duration)
}

// UpdateJournalQueue sets the current depth of the journal write queue.
func (c *Collector) UpdateJournalQueue(depth int) {
	if !c.config.Enabled {
		return
	}

	c.journalMetrics.UpdateQueueDepth(depth)
}

// RecordJournalPrune records records removed by retention.
func (c *Collector) RecordJournalPrune(deleted int64) {
	if !c.config.Enabled {
		return
	}

	c.journalMetrics.RecordPrune(deleted)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
