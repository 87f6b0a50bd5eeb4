package tls

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// CertificateReloader polls the certificate and key files and swaps in the
// new pair when either changes. A pair that fails to load or validate is
// logged and the previous certificate stays in service.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.RWMutex
	cert      *tls.Certificate
	certTime  time.Time
	keyTime   time.Time
	lastError error
	reloads   int
}

// ReloaderOption configures a CertificateReloader.
type ReloaderOption func(*CertificateReloader)

// WithLogger sets the reloader's logger.
func WithLogger(logger *slog.Logger) ReloaderOption {
	return func(r *CertificateReloader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time used for validity checks.
func WithClock(now func() time.Time) ReloaderOption {
	return func(r *CertificateReloader) {
		if now != nil {
			r.now = now
		}
	}
}

// NewCertificateReloader creates a reloader polling every interval.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, opts ...ReloaderOption) *CertificateReloader {
	r := &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start loads the initial certificate and polls for changes until ctx is
// cancelled. It fails when the initial certificate cannot be loaded.
func (r *CertificateReloader) Start(ctx context.Context) error {
	if err := r.Reload(); err != nil {
		return err
	}
	if r.interval > 0 {
		go r.reloadLoop(ctx)
	}
	return nil
}

func (r *CertificateReloader) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if r.needsReload() {
				if err := r.Reload(); err != nil {
					r.logger.Error("failed to reload certificate",
						"error", err,
						"cert_file", r.certFile,
						"key_file", r.keyFile,
					)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// needsReload reports whether either file changed since the last load.
func (r *CertificateReloader) needsReload() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return !certInfo.ModTime().Equal(r.certTime) || !keyInfo.ModTime().Equal(r.keyTime)
}

// Reload loads and validates the pair from disk.
func (r *CertificateReloader) Reload() error {
	err := r.load()

	r.mu.Lock()
	r.lastError = err
	r.mu.Unlock()
	return err
}

func (r *CertificateReloader) load() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return fmt.Errorf("certificate file: %w", err)
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return fmt.Errorf("key file: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	now := r.now()
	if err := ValidateCertificate(&cert, now); err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.reloads++
	r.mu.Unlock()

	r.logCertificateInfo(&cert, now)
	return nil
}

// GetCertificate returns the certificate in service, or nil before Start.
func (r *CertificateReloader) GetCertificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificateFunc adapts the reloader to tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		cert := r.GetCertificate()
		if cert == nil {
			return nil, errors.New("no certificate loaded")
		}
		return cert, nil
	}
}

// Loads returns the number of successful loads, including the first.
func (r *CertificateReloader) Loads() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reloads
}

// Check is a readiness check: it fails when no certificate is loaded or
// the certificate in service has expired.
func (r *CertificateReloader) Check(context.Context) error {
	r.mu.RLock()
	cert, lastErr := r.cert, r.lastError
	r.mu.RUnlock()

	if cert == nil {
		if lastErr != nil {
			return lastErr
		}
		return errors.New("no certificate loaded")
	}
	return ValidateCertificate(cert, r.now())
}

func (r *CertificateReloader) logCertificateInfo(cert *tls.Certificate, now time.Time) {
	leaf, err := leafCertificate(cert)
	if err != nil {
		return
	}

	days, warning := CheckCertificateExpiration(leaf, now)
	attrs := []any{
		"subject", leaf.Subject.CommonName,
		"issuer", leaf.Issuer.CommonName,
		"expires_in_days", days,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	}
	if warning != "" {
		r.logger.Warn("certificate expiring soon", attrs...)
		return
	}
	r.logger.Info("certificate loaded", attrs...)
}
