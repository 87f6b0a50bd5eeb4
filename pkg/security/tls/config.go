package tls

import (
	"crypto/tls"
	"errors"
	"fmt"

	"mercator-hq/switchyard/pkg/config"
)

// ParseMinVersion converts "1.2" or "1.3" to a crypto/tls version.
func ParseMinVersion(v string) (uint16, error) {
	switch v {
	case "1.2":
		return tls.VersionTLS12, nil
	case "1.3", "":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", v)
	}
}

// ServerConfig builds the server TLS configuration. Certificates are served
// from reloader so renewals apply to new connections without a restart.
func ServerConfig(cfg config.TLSConfig, reloader *CertificateReloader) (*tls.Config, error) {
	if reloader == nil {
		return nil, errors.New("certificate reloader is required")
	}
	minVersion, err := ParseMinVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	// #nosec G402 - MinVersion is 1.2 or 1.3
	return &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: reloader.GetCertificateFunc(),
		NextProtos:     []string{"h2", "http/1.1"},
	}, nil
}
