package routing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/telemetry/logging"
)

type fakeMetrics struct {
	mu        sync.Mutex
	decisions []string
	analyses  int
	ignored   int
}

func (f *fakeMetrics) RecordDecision(branch, model, provider, ruleID string, confidence, cost float64, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, branch+"/"+model)
}

func (f *fakeMetrics) RecordIgnoredPreference() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ignored++
}

func (f *fakeMetrics) RecordAnalysis(contentType, complexity string, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyses++
}

type fakeJournal struct {
	requestIDs []string
	err        error
}

func (f *fakeJournal) Record(_ context.Context, requestID string, _ *Decision) error {
	f.requestIDs = append(f.requestIDs, requestID)
	return f.err
}

func TestService_Route(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	metrics := &fakeMetrics{}
	journal := &fakeJournal{}

	svc := NewService(StaticRouter{R: newTestRouter(t)},
		WithTracer(tp.Tracer("test")),
		WithMetrics(metrics),
		WithJournal(journal),
		WithLogger(logging.Discard()),
	)

	d := svc.Route(context.Background(), "req-1", fibonacciQuery, "", nil)
	if d.Model.ID != "gpt-3.5-turbo" {
		t.Fatalf("Model = %s, want gpt-3.5-turbo", d.Model.ID)
	}

	if len(metrics.decisions) != 1 || metrics.decisions[0] != "rule/gpt-3.5-turbo" {
		t.Errorf("unexpected metrics: %v", metrics.decisions)
	}
	if metrics.analyses != 1 {
		t.Errorf("analyses recorded = %d, want 1", metrics.analyses)
	}
	if len(journal.requestIDs) != 1 || journal.requestIDs[0] != "req-1" {
		t.Errorf("unexpected journal calls: %v", journal.requestIDs)
	}
	if snap := svc.Stats().Snapshot(); snap.TotalDecisions != 1 {
		t.Errorf("TotalDecisions = %d, want 1", snap.TotalDecisions)
	}

	spans := recorder.Ended()
	names := make(map[string]bool)
	for _, s := range spans {
		names[s.Name()] = true
	}
	if !names["routing.Route"] || !names["routing.Analyze"] {
		t.Errorf("expected route and analyze spans, got %v", names)
	}
}

func TestService_IgnoredPreference(t *testing.T) {
	metrics := &fakeMetrics{}
	svc := NewService(StaticRouter{R: newTestRouter(t)}, WithMetrics(metrics), WithLogger(logging.Discard()))

	d := svc.Route(context.Background(), "req-2", fibonacciQuery, "no-such-model", nil)
	if !d.PreferenceIgnored {
		t.Error("expected PreferenceIgnored")
	}
	if metrics.ignored != 1 {
		t.Errorf("ignored preferences recorded = %d, want 1", metrics.ignored)
	}
	if svc.Stats().Snapshot().IgnoredPreferences != 1 {
		t.Error("stats did not count the ignored preference")
	}
}

func TestService_IgnoredPreferenceLogsAtDebug(t *testing.T) {
	for _, tt := range []struct {
		level   string
		wantLog bool
	}{
		{level: "info", wantLog: false},
		{level: "debug", wantLog: true},
	} {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := logging.New(logging.Config{Level: tt.level, Format: "json", Writer: &buf})
			if err != nil {
				t.Fatalf("logging.New() error = %v", err)
			}

			svc := NewService(StaticRouter{R: newTestRouter(t)}, WithLogger(logger))
			svc.Route(context.Background(), "req-5", fibonacciQuery, "no-such-model", nil)

			out := buf.String()
			if got := strings.Contains(out, "ignoring unknown model preference"); got != tt.wantLog {
				t.Errorf("preference log present = %v, want %v: %s", got, tt.wantLog, out)
			}
			if strings.Contains(out, `"level":"WARN"`) {
				t.Errorf("ignored preference must not log a warning: %s", out)
			}
		})
	}
}

func TestService_JournalErrorDoesNotFailRoute(t *testing.T) {
	journal := &fakeJournal{err: errors.New("buffer full")}
	svc := NewService(StaticRouter{R: newTestRouter(t)}, WithJournal(journal), WithLogger(logging.Discard()))

	d := svc.Route(context.Background(), "req-3", "", "", nil)
	if d.Branch != BranchFallback {
		t.Errorf("Branch = %s, want fallback", d.Branch)
	}
	if svc.Stats().Snapshot().JournalErrors != 1 {
		t.Error("journal error not counted")
	}
}

func TestService_QueryPreviewIsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}

	svc := NewService(StaticRouter{R: newTestRouter(t)},
		WithLogger(logger),
		WithQueryPreview(logging.NewRedactor(nil), 40),
	)
	svc.Route(context.Background(), "req-4", "Email the report to alice@example.com by Friday", "", nil)

	out := buf.String()
	if !strings.Contains(out, "routing decision") {
		t.Fatalf("expected debug decision log, got %s", out)
	}
	if strings.Contains(out, "alice@example.com") {
		t.Errorf("query preview leaked an email address: %s", out)
	}
	if !strings.Contains(out, "query_preview") {
		t.Errorf("expected a query preview attribute: %s", out)
	}
}

func TestService_Analyze(t *testing.T) {
	metrics := &fakeMetrics{}
	svc := NewService(StaticRouter{R: newTestRouter(t)}, WithMetrics(metrics))

	a := svc.Analyze(context.Background(), fibonacciQuery, []content.FileMeta{{Type: "text/plain", Size: 10}})
	if !a.HasDocuments || a.FileCount != 1 {
		t.Errorf("unexpected file flags: %+v", a)
	}
	if metrics.analyses != 1 {
		t.Errorf("analyses recorded = %d, want 1", metrics.analyses)
	}
	if len(metrics.decisions) != 0 {
		t.Error("Analyze must not record a decision")
	}
}
