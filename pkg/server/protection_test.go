package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/switchyard/pkg/config"
)

const testAPIKey = "sk-switchyard-test-0123456789"

func withAuth(cfg *config.ServerConfig) {
	cfg.Auth = config.AuthConfig{
		Enabled: true,
		Keys: []config.APIKeyConfig{
			{Name: "ci", Key: testAPIKey},
			{Name: "retired", Key: "sk-switchyard-retired-0123", Disabled: true},
		},
	}
}

func routeRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/route", strings.NewReader(`{"query": "`+fibonacciQuery+`"}`))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	return req
}

func TestAuth(t *testing.T) {
	env := newTestEnvWith(t, false, withAuth)

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{name: "valid key", key: testAPIKey, wantStatus: http.StatusOK},
		{name: "missing key", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", key: "sk-nope", wantStatus: http.StatusUnauthorized},
		{name: "disabled key", key: "sk-switchyard-retired-0123", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, routeRequest(tt.key))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusUnauthorized {
				return
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error.Type != errTypeUnauthorized {
				t.Errorf("error type = %q", body.Error.Type)
			}
		})
	}
}

func TestAuth_ProbesStayOpen(t *testing.T) {
	env := newTestEnvWith(t, false, withAuth)

	for _, path := range []string{"/health", "/ready", "/version", "/metrics"} {
		rec := env.do(t, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200 without a key", path, rec.Code)
		}
	}
	if rec := env.do(t, http.MethodGet, "/v1/models", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /v1/models = %d, want 401", rec.Code)
	}
}

func TestAuth_Metrics(t *testing.T) {
	env := newTestEnvWith(t, false, withAuth)

	env.handler.ServeHTTP(httptest.NewRecorder(), routeRequest(""))
	env.handler.ServeHTTP(httptest.NewRecorder(), routeRequest("sk-nope"))
	env.handler.ServeHTTP(httptest.NewRecorder(), routeRequest("sk-nope"))

	rec := env.do(t, http.MethodGet, "/metrics", "")
	body := rec.Body.String()
	for _, want := range []string{
		`test_server_auth_failures_total{reason="missing"} 1`,
		`test_server_auth_failures_total{reason="invalid"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestNew_AuthWithoutKeys(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := New(config.ServerConfig{Auth: config.AuthConfig{Enabled: true}}, config.QueryConfig{}, env.server.deps)
	if err == nil {
		t.Fatal("expected error when auth has no keys")
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnvWith(t, false, func(cfg *config.ServerConfig) {
		withAuth(cfg)
		cfg.RateLimit = config.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 0.001,
			Burst:             2,
		}
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, routeRequest(testAPIKey))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, routeRequest(testAPIKey))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Type != errTypeRateLimited {
		t.Errorf("error type = %q", body.Error.Type)
	}

	// Probes are not limited.
	if rec := env.do(t, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d", rec.Code)
	}

	metricsBody := env.do(t, http.MethodGet, "/metrics", "").Body.String()
	if !strings.Contains(metricsBody, `test_server_rate_limited_total{limit="requests_per_second"} 1`) {
		t.Error("rate limited request not counted")
	}
}

func TestRateLimit_AnonymousByAddress(t *testing.T) {
	env := newTestEnvWith(t, false, func(cfg *config.ServerConfig) {
		cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	})

	send := func(addr string) int {
		req := routeRequest("")
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("192.0.2.1:1000"); code != http.StatusOK {
		t.Fatalf("first request = %d", code)
	}
	if code := send("192.0.2.1:1001"); code != http.StatusTooManyRequests {
		t.Errorf("same address = %d, want 429", code)
	}
	if code := send("192.0.2.2:1000"); code != http.StatusOK {
		t.Errorf("other address = %d, want 200", code)
	}
}

func TestServer_StartTLS(t *testing.T) {
	certFile, keyFile, certPEM := writeTestCertificate(t)

	env := newTestEnvWith(t, false, func(cfg *config.ServerConfig) {
		cfg.ListenAddress = "127.0.0.1:0"
		cfg.TLS = config.TLSConfig{
			Enabled:    true,
			CertFile:   certFile,
			KeyFile:    keyFile,
			MinVersion: "1.2",
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Start(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for env.server.Addr() == "" {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	roots := x509.NewCertPool()
	roots.AppendCertsFromPEM(certPEM)
	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{
			RootCAs:    roots,
			ServerName: "localhost",
			MinVersion: tls.VersionTLS12,
		}},
	}

	resp, err := client.Get("https://" + env.server.Addr() + "/ready")
	if err != nil {
		cancel()
		t.Fatalf("GET over TLS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.TLS == nil {
		t.Error("response was not served over TLS")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func TestServer_StartTLS_MissingCertificate(t *testing.T) {
	env := newTestEnvWith(t, false, func(cfg *config.ServerConfig) {
		cfg.ListenAddress = "127.0.0.1:0"
		cfg.TLS = config.TLSConfig{
			Enabled:  true,
			CertFile: filepath.Join(t.TempDir(), "missing.crt"),
			KeyFile:  filepath.Join(t.TempDir(), "missing.key"),
		}
	})

	if err := env.server.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail without a certificate")
	}
}

// writeTestCertificate writes a self-signed localhost certificate valid for
// a day.
func writeTestCertificate(t *testing.T) (certFile, keyFile string, certPEM []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	now := time.Now()
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		DNSNames:              []string{"localhost"},
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	dir := t.TempDir()
	certFile = filepath.Join(dir, "server.crt")
	keyFile = filepath.Join(dir, "server.key")
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certFile, certPEM, 0o600); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return certFile, keyFile, certPEM
}
