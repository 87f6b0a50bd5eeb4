// Package health provides liveness and readiness probes for Switchyard.
//
// /health answers as long as the process is running. /ready runs every
// registered check concurrently, each bounded by the configured timeout, and
// answers 503 when any check fails. The server registers a "catalog" check
// (a router is loaded) and, when the journal is enabled, a "journal" check
// that pings storage.
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("catalog", func(ctx context.Context) error {
//	    if manager.Router() == nil {
//	        return errors.New("no catalog loaded")
//	    }
//	    return nil
//	})
//	r.Get("/health", checker.LivenessHandler())
//	r.Get("/ready", checker.ReadinessHandler())
package health
