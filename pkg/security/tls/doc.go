/*
Package tls serves the HTTP API over TLS with certificates that are reloaded
from disk when they change.

	reloader := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval)
	if err := reloader.Start(ctx); err != nil {
		return err
	}
	tlsConfig, err := tls.ServerConfig(cfg, reloader)

Only TLS 1.2 and 1.3 are accepted. Certificates that are expired or not
yet valid are refused at load time; a certificate within 30 days of expiry
is logged as a warning on every load.
*/
package tls
