package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestMiddleware(t *testing.T, opts ...Option) *Middleware {
	t.Helper()
	ks, err := NewKeySet(testKeys())
	if err != nil {
		t.Fatalf("NewKeySet: %v", err)
	}
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewMiddleware(ks, opts...)
}

func TestMiddleware_Handle(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantClient string
		wantReason string
	}{
		{
			name:       "bearer token",
			header:     AuthorizationHeader,
			value:      "Bearer sk-ci-0123456789abcdef",
			wantStatus: http.StatusOK,
			wantClient: "ci",
		},
		{
			name:       "lowercase scheme",
			header:     AuthorizationHeader,
			value:      "bearer sk-dash-0123456789abcdef",
			wantStatus: http.StatusOK,
			wantClient: "dashboard",
		},
		{
			name:       "api key header",
			header:     APIKeyHeader,
			value:      "sk-dash-0123456789abcdef",
			wantStatus: http.StatusOK,
			wantClient: "dashboard",
		},
		{
			name:       "basic scheme ignored",
			header:     AuthorizationHeader,
			value:      "Basic sk-ci-0123456789abcdef",
			wantStatus: http.StatusUnauthorized,
			wantReason: "missing",
		},
		{
			name:       "no key",
			wantStatus: http.StatusUnauthorized,
			wantReason: "missing",
		},
		{
			name:       "wrong key",
			header:     APIKeyHeader,
			value:      "sk-wrong",
			wantStatus: http.StatusUnauthorized,
			wantReason: "invalid",
		},
		{
			name:       "disabled key",
			header:     AuthorizationHeader,
			value:      "Bearer sk-old-0123456789abcdef",
			wantStatus: http.StatusUnauthorized,
			wantReason: "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reason string
			mw := newTestMiddleware(t, WithFailureHook(func(r string) { reason = r }))

			var gotClient string
			handler := mw.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				client, ok := ClientFromContext(r.Context())
				if !ok {
					t.Error("expected client in context")
				}
				gotClient = client.Name
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/v1/route", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if gotClient != tt.wantClient {
				t.Errorf("expected client %q, got %q", tt.wantClient, gotClient)
			}
			if reason != tt.wantReason {
				t.Errorf("expected failure reason %q, got %q", tt.wantReason, reason)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header on 401")
			}
		})
	}
}

func TestMiddleware_RejectFunc(t *testing.T) {
	var gotErr error
	mw := newTestMiddleware(t, WithRejectFunc(func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusTeapot)
	}))

	handler := mw.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected custom status, got %d", rec.Code)
	}
	if !errors.Is(gotErr, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", gotErr)
	}
}

func TestClientFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := ClientFromContext(req.Context()); ok {
		t.Error("expected no client in a fresh context")
	}
}
