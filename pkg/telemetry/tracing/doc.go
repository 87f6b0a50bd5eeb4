// Package tracing provides OpenTelemetry distributed tracing for Switchyard.
//
// # Overview
//
// Spans are exported over OTLP gRPC. When tracing is disabled the package
// hands out a noop tracer, so callers never branch on configuration.
//
// Each routed request produces this span tree:
//
//	POST /v1/route          (server span, HTTPMiddleware)
//	└── routing.Route       (branch, model, rule, confidence, cost)
//	    └── routing.Analyze (length, tokens, content type, complexity)
//
// Query text is never written to spans.
//
// # Trace Context Propagation
//
// Incoming W3C traceparent headers are honored, so routing spans join the
// caller's trace. The trace ID is echoed in the X-Trace-ID response header
// and attached to log lines through the logging context.
//
// # Sampling Strategies
//
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces by trace ID (production)
//
// Samplers are parent-based: a sampled caller always gets routing spans.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	svc := routing.NewService(manager, routing.WithTracer(tracer.Tracer()))
//	r.Use(tracing.HTTPMiddleware(tracer))
package tracing
