// Package logging builds the structured loggers used across Switchyard.
//
// # Overview
//
// New returns a standard *slog.Logger whose handler:
//   - writes JSON, text, or console output at the configured level
//   - adds request_id and trace_id from the context to every record
//   - masks PII (API keys, emails, card numbers, SSNs, phone numbers, IPs)
//     in string attributes when RedactPII is set
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "route decided", "model", "gpt-4o")
//
// Components attach their name with logger.With("component", "catalog.manager").
//
// # Query previews
//
// Query text is never logged in full. Redactor.Preview truncates and redacts
// a query for debug-level logging.
package logging
