package tls

import (
	"crypto/tls"
	"crypto/x509"
	"strings"
	"testing"
	"time"
)

func TestValidateCertificate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		notBefore time.Time
		notAfter  time.Time
		wantErr   string
	}{
		{name: "valid", notBefore: now.Add(-time.Hour), notAfter: now.Add(time.Hour)},
		{name: "expired", notBefore: now.Add(-48 * time.Hour), notAfter: now.Add(-time.Hour), wantErr: "expired"},
		{name: "not yet valid", notBefore: now.Add(time.Hour), notAfter: now.Add(48 * time.Hour), wantErr: "not yet valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certFile, keyFile, _ := writeCertPair(t, t.TempDir(), "test", tt.notBefore, tt.notAfter)
			cert, err := tls.LoadX509KeyPair(certFile, keyFile)
			if err != nil {
				t.Fatalf("load pair: %v", err)
			}

			err = ValidateCertificate(&cert, now)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCertificate_Empty(t *testing.T) {
	if err := ValidateCertificate(nil, time.Now()); err == nil {
		t.Error("expected error for nil certificate")
	}
	if err := ValidateCertificate(&tls.Certificate{}, time.Now()); err == nil {
		t.Error("expected error for empty chain")
	}
}

func TestCheckCertificateExpiration(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	days, warning := CheckCertificateExpiration(&x509.Certificate{NotAfter: now.Add(90 * 24 * time.Hour)}, now)
	if days != 90 || warning != "" {
		t.Errorf("expected 90 days without warning, got %d %q", days, warning)
	}

	days, warning = CheckCertificateExpiration(&x509.Certificate{NotAfter: now.Add(10 * 24 * time.Hour)}, now)
	if days != 10 || !strings.Contains(warning, "2024-06-11") {
		t.Errorf("expected 10 day warning, got %d %q", days, warning)
	}
}

func TestParseMinVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{in: "1.2", want: tls.VersionTLS12},
		{in: "1.3", want: tls.VersionTLS13},
		{in: "", want: tls.VersionTLS13},
		{in: "1.1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMinVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMinVersion(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMinVersion(%q) = %x, want %x", tt.in, got, tt.want)
		}
	}
}
