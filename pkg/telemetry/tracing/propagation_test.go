package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"mercator-hq/switchyard/pkg/telemetry/logging"
)

func TestValidateTraceParent(t *testing.T) {
	tests := []struct {
		name        string
		traceparent string
		want        bool
	}{
		{"valid sampled", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", true},
		{"valid not sampled", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00", true},
		{"uppercase hex", "00-4BF92F3577B34DA6A3CE929D0E0E4736-00F067AA0BA902B7-01", true},
		{"empty", "", false},
		{"too few parts", "00-4bf92f3577b34da6a3ce929d0e0e4736-01", false},
		{"short trace id", "00-4bf92f35-00f067aa0ba902b7-01", false},
		{"non-hex", "00-4bf92f3577b34da6a3ce929d0e0e473z-00f067aa0ba902b7-01", false},
		{"zero trace id", "00-00000000000000000000000000000000-00f067aa0ba902b7-01", false},
		{"zero parent id", "00-4bf92f3577b34da6a3ce929d0e0e4736-0000000000000000-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTraceParent(tt.traceparent); got != tt.want {
				t.Errorf("ValidateTraceParent(%q) = %v, want %v", tt.traceparent, got, tt.want)
			}
		})
	}
}

func TestPropagationDebugInfo(t *testing.T) {
	h := http.Header{}
	if got := PropagationDebugInfo(h)["traceparent"]; got != "not present" {
		t.Errorf("traceparent = %q, want not present", got)
	}

	h.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	h.Set("tracestate", "congo=t61rcWkgMzE")
	info := PropagationDebugInfo(h)
	if info["trace_id"] != "4bf92f3577b34da6a3ce929d0e0e4736" || info["sampled"] != "true" {
		t.Errorf("unexpected info %v", info)
	}
	if info["tracestate"] != "congo=t61rcWkgMzE" {
		t.Errorf("tracestate = %q", info["tracestate"])
	}

	h.Set("traceparent", "garbage")
	if PropagationDebugInfo(h)["error"] == "" {
		t.Error("expected error for malformed traceparent")
	}
}

func TestExtractInject(t *testing.T) {
	tracer, _ := newTestTracer(t)

	ctx, span := tracer.Start(context.Background(), "client")
	defer span.End()

	h := http.Header{}
	Inject(ctx, h)
	if !ValidateTraceParent(h.Get("traceparent")) {
		t.Fatalf("injected traceparent invalid: %q", h.Get("traceparent"))
	}

	extracted := Extract(context.Background(), h)
	if got, want := TraceID(extracted), span.SpanContext().TraceID().String(); got != want {
		t.Errorf("extracted trace ID %s, want %s", got, want)
	}
}

func TestHTTPMiddleware(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	var loggedTraceID string
	r := chi.NewRouter()
	r.Use(HTTPMiddleware(tracer))
	r.Get("/v1/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		loggedTraceID = logging.GetTraceID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/models/gpt-4", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Trace-ID"); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("X-Trace-ID = %q, want caller trace ID", got)
	}
	if loggedTraceID != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("logging trace ID = %q", loggedTraceID)
	}

	flush(t, tracer)
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "GET /v1/models/{id}" {
		t.Errorf("span name = %q, want route pattern", spans[0].Name)
	}
}
