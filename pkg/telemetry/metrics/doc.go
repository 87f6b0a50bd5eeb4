// Package metrics provides Prometheus metrics collection for Switchyard.
//
// # Overview
//
// The Collector registers every Switchyard metric on a single
// prometheus.Registry and implements routing.MetricsRecorder, so the routing
// service records decisions without importing Prometheus. When
// MetricsConfig.Enabled is false every Record method is a no-op.
//
// # Metrics Categories
//
//   - HTTP Metrics: Request count, duration and in-flight requests by route
//   - Routing Metrics: Decisions by branch and model, rule wins, confidence,
//     ignored preferences and analysis outcomes
//   - Cost Metrics: Estimated cost per decision by provider and model
//   - Catalog Metrics: Reload attempts, duration and active model/rule counts
//   - Journal Metrics: Records written, failed and dropped, queue depth and
//     retention pruning
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	svc := routing.NewService(manager, routing.WithMetrics(collector))
//
//	collector.RecordCatalogReload(true, 3*time.Millisecond, 12, 12)
//	collector.RecordHTTPRequest("POST", "/v1/route", 200, 400*time.Microsecond)
//
// # Prometheus Endpoint
//
// All metrics are exposed through Collector.Handler:
//
//	# HELP switchyard_router_decisions_total Total number of routing decisions
//	# TYPE switchyard_router_decisions_total counter
//	switchyard_router_decisions_total{branch="rule",model="gpt-4",provider="openai"} 1234
//
// # Cardinality Management
//
// Model labels come from catalog files, so decision label sets are capped at
// 10,000 unique combinations. Beyond the cap the model label is reported as
// "other". HTTP metrics label the matched route pattern, never the raw path.
package metrics
