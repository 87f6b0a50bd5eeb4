// Package server exposes the router over HTTP.
//
// # Endpoints
//
//	POST /v1/route              Route a query: {query, preference?, files?[]}
//	POST /v1/analyze            Analyze a query without routing it
//	GET  /v1/models             Registered models and the fallback model
//	GET  /v1/models/{id}        A single model
//	GET  /v1/rules              Rules in evaluation order
//	GET  /v1/stats              Routing counters and catalog status
//	GET  /v1/decisions          Journal records (filters: model, provider,
//	                            branch, rule_id, request_id, start, end,
//	                            limit, offset, sort)
//	GET  /v1/decisions/summary  Journal aggregates for the same filters
//	GET  /health, /ready        Liveness and readiness probes
//	GET  /version               Build information
//	GET  /metrics               Prometheus scrape endpoint (configurable)
//
// Request bodies are validated with go-playground/validator: the query is at
// most 100000 characters, at most 10 files may be attached, and every file
// needs a MIME type. Validation failures return 422 with per-field messages.
//
// # Middleware
//
// Requests pass through panic recovery, request IDs (X-Request-ID), tracing,
// access logging, Prometheus metrics and CORS, in that order.
package server
