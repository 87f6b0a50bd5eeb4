package tracing

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/switchyard/pkg/telemetry/logging"
)

// W3C Trace Context Propagation
//
// Callers that already trace their requests send a traceparent header:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// The routing spans then join the caller's trace instead of starting a new
// one, and the X-Trace-ID response header echoes the trace ID.

// Propagator returns the configured text map propagator.
// This is typically a composite propagator that handles both
// W3C Trace Context and W3C Baggage.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// Extract extracts trace context from HTTP headers and returns a context
// with the extracted trace context.
//
// If no trace context is found in the headers, the original context is returned.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return Propagator().Extract(ctx, propagation.HeaderCarrier(headers))
}

// Inject injects trace context into HTTP headers.
func Inject(ctx context.Context, headers http.Header) {
	Propagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// HTTPMiddleware returns chi middleware that extracts incoming trace context,
// starts a server span per request and stores the trace ID for logging.
// The span is renamed to the matched route pattern once routing is done, so
// span names stay low-cardinality.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Use(tracing.HTTPMiddleware(tracer))
func HTTPMiddleware(t *Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := Extract(r.Context(), r.Header)
			ctx, span := t.Start(ctx, "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
				),
			)
			defer span.End()

			if sc := span.SpanContext(); sc.IsValid() {
				w.Header().Set("X-Trace-ID", sc.TraceID().String())
				ctx = logging.WithTraceID(ctx, sc.TraceID().String())
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					span.SetName(r.Method + " " + pattern)
					span.SetAttributes(attribute.String("http.route", pattern))
				}
			}
		})
	}
}

// ValidateTraceParent reports whether a traceparent header is well formed:
// version-trace_id-parent_id-trace_flags in lowercase or uppercase hex, with
// non-zero trace and parent IDs.
func ValidateTraceParent(traceparent string) bool {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return false
	}
	for i, n := range []int{2, 32, 16, 2} {
		if len(parts[i]) != n || !isHexString(parts[i]) {
			return false
		}
	}
	if strings.Trim(parts[1], "0") == "" || strings.Trim(parts[2], "0") == "" {
		return false
	}
	return true
}

// isHexString checks if a string contains only hexadecimal characters.
func isHexString(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// PropagationDebugInfo describes the trace headers of a request. It backs
// the debug log line written when a caller sends a malformed traceparent.
func PropagationDebugInfo(headers http.Header) map[string]string {
	info := make(map[string]string)

	traceparent := headers.Get("traceparent")
	switch {
	case traceparent == "":
		info["traceparent"] = "not present"
	case ValidateTraceParent(traceparent):
		parts := strings.Split(traceparent, "-")
		info["traceparent"] = traceparent
		info["trace_id"] = parts[1]
		info["parent_id"] = parts[2]
		var flags byte
		if _, err := fmt.Sscanf(parts[3], "%02x", &flags); err == nil {
			info["sampled"] = fmt.Sprintf("%t", flags&0x01 == 0x01)
		}
	default:
		info["traceparent"] = traceparent
		info["error"] = "invalid traceparent format"
	}

	if tracestate := headers.Get("tracestate"); tracestate != "" {
		info["tracestate"] = tracestate
	}

	return info
}
