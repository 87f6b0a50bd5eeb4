package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{name: "default timeout", timeout: 0, expectedTimeout: 5 * time.Second},
		{name: "negative timeout", timeout: -time.Second, expectedTimeout: 5 * time.Second},
		{name: "custom timeout", timeout: 10 * time.Second, expectedTimeout: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.ListChecks()) != 0 {
				t.Errorf("expected no checks, got %v", checker.ListChecks())
			}
		})
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("journal", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("catalog", func(ctx context.Context) error { return nil })

	names := checker.ListChecks()
	if len(names) != 2 || names[0] != "catalog" || names[1] != "journal" {
		t.Errorf("expected sorted [catalog journal], got %v", names)
	}

	checker.UnregisterCheck("journal")
	if names := checker.ListChecks(); len(names) != 1 {
		t.Errorf("expected 1 check after unregister, got %v", names)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		unhealthy  []string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"catalog": func(ctx context.Context) error { return nil },
				"journal": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "journal down",
			checks: map[string]CheckFunc{
				"catalog": func(ctx context.Context) error { return nil },
				"journal": func(ctx context.Context) error { return errors.New("database is locked") },
			},
			wantStatus: StatusDegraded,
			unhealthy:  []string{"journal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, status.Status)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("expected %d results, got %d", len(tt.checks), len(status.Checks))
			}
			for _, name := range tt.unhealthy {
				if status.Checks[name].Status != StatusUnhealthy {
					t.Errorf("expected %s unhealthy, got %+v", name, status.Checks[name])
				}
			}
		})
	}
}

func TestCheckTimeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	checker.RegisterCheck("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})

	start := time.Now()
	status := checker.CheckReadiness(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("readiness did not honor the check timeout")
	}

	result := status.Checks["stuck"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("expected timeout result, got %+v", result)
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("broken", func(ctx context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	checker.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("liveness must not run checks; got status %d", rec.Code)
	}
	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != StatusOK {
		t.Errorf("expected ok, got %q", status.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	checker := New(time.Second)
	healthy := true
	checker.RegisterCheck("catalog", func(ctx context.Context) error {
		if !healthy {
			return errors.New("no catalog loaded")
		}
		return nil
	})

	rec := httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	healthy = false
	rec = httptest.NewRecorder()
	checker.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Checks["catalog"].Message != "no catalog loaded" {
		t.Errorf("unexpected catalog result %+v", status.Checks["catalog"])
	}
}

func TestHeadRequestHasNoBody(t *testing.T) {
	checker := New(time.Second)
	rec := httptest.NewRecorder()
	checker.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/health", nil))

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD, got %q", rec.Body.String())
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler(NewVersionInfo("1.2.3", "abc123", "2026-10-17")).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("unexpected version info %+v", info)
	}
}
