// Package telemetry groups Switchyard's observability packages.
//
//   - logging: slog setup, request-scoped attributes and query redaction
//   - metrics: Prometheus collectors for decisions, estimated cost, HTTP,
//     catalog reloads and the decision journal
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness, readiness and version endpoints
//
// Each package is configured from the telemetry section of the
// configuration and is optional; disabled metrics and tracing become
// no-ops rather than nil checks at call sites.
package telemetry
