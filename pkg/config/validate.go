package config

import (
	"fmt"
	"math"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateRouting(&cfg.Routing)...)
	errs = append(errs, validateCatalog(&cfg.Catalog)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
		{"server.idle_timeout", cfg.IdleTimeout},
		{"server.shutdown_timeout", cfg.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.value < 0 {
			errs = append(errs, FieldError{Field: t.field, Message: "timeout must be positive"})
		}
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	if cfg.CORS.Enabled {
		if cfg.CORS.MaxAge < 0 {
			errs = append(errs, FieldError{
				Field:   "server.cors.max_age",
				Message: "max age must be non-negative",
			})
		}
		if cfg.CORS.AllowCredentials && containsString(cfg.CORS.AllowedOrigins, "*") {
			errs = append(errs, FieldError{
				Field:   "server.cors.allow_credentials",
				Message: "credentials cannot be allowed with wildcard origin",
			})
		}
	}

	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateRateLimit(&cfg.RateLimit)...)
	errs = append(errs, validateTLS(&cfg.TLS)...)

	return errs
}

func validateAuth(cfg *AuthConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}
	var errs []FieldError

	if len(cfg.Keys) == 0 {
		errs = append(errs, FieldError{
			Field:   "server.auth.keys",
			Message: "at least one API key is required when auth is enabled",
		})
	}
	names := make(map[string]bool, len(cfg.Keys))
	secrets := make(map[string]bool, len(cfg.Keys))
	for i, k := range cfg.Keys {
		field := fmt.Sprintf("server.auth.keys[%d]", i)
		if k.Name == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "name is required"})
		} else if names[k.Name] {
			errs = append(errs, FieldError{Field: field + ".name", Message: fmt.Sprintf("duplicate key name %q", k.Name)})
		}
		if len(k.Key) < 16 {
			errs = append(errs, FieldError{Field: field + ".key", Message: "key must be at least 16 characters"})
		} else if secrets[k.Key] {
			errs = append(errs, FieldError{Field: field + ".key", Message: "duplicate key"})
		}
		names[k.Name] = true
		secrets[k.Key] = true
	}
	return errs
}

func validateRateLimit(cfg *RateLimitConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}
	var errs []FieldError

	if cfg.RequestsPerSecond < 0 || math.IsNaN(cfg.RequestsPerSecond) || math.IsInf(cfg.RequestsPerSecond, 0) {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.requests_per_second",
			Message: "requests per second must be a non-negative number",
		})
	}
	if cfg.RequestsPerSecond > 0 && float64(cfg.Burst) < 1 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.burst",
			Message: "burst must be at least 1",
		})
	}
	if cfg.RequestsPerMinute < 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.requests_per_minute",
			Message: "requests per minute must be non-negative",
		})
	}
	if cfg.MaxConcurrent < 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.max_concurrent",
			Message: "max concurrent must be non-negative",
		})
	}
	if cfg.RequestsPerSecond == 0 && cfg.RequestsPerMinute == 0 && cfg.MaxConcurrent == 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit",
			Message: "rate limiting is enabled but no limit is set",
		})
	}
	if cfg.IdleTTL < 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.idle_ttl",
			Message: "idle ttl must be positive",
		})
	}
	return errs
}

func validateTLS(cfg *TLSConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}
	var errs []FieldError

	if cfg.CertFile == "" {
		errs = append(errs, FieldError{Field: "server.tls.cert_file", Message: "certificate file is required when TLS is enabled"})
	}
	if cfg.KeyFile == "" {
		errs = append(errs, FieldError{Field: "server.tls.key_file", Message: "key file is required when TLS is enabled"})
	}
	if cfg.MinVersion != "1.2" && cfg.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "server.tls.min_version",
			Message: fmt.Sprintf("unsupported TLS version %q (valid: 1.2, 1.3)", cfg.MinVersion),
		})
	}
	if cfg.ReloadInterval < 0 {
		errs = append(errs, FieldError{Field: "server.tls.reload_interval", Message: "reload interval must be positive"})
	}
	return errs
}

// validateRouting validates routing policy constants.
func validateRouting(cfg *RoutingConfig) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(cfg.DefaultModel) == "" {
		errs = append(errs, FieldError{
			Field:   "routing.default_model",
			Message: "default model is required",
		})
	}
	if !inUnitInterval(cfg.FallbackConfidence) {
		errs = append(errs, FieldError{
			Field:   "routing.fallback_confidence",
			Message: "fallback confidence must be between 0.0 and 1.0",
		})
	}
	if cfg.MaxAlternatives < 1 || cfg.MaxAlternatives > 3 {
		errs = append(errs, FieldError{
			Field:   "routing.max_alternatives",
			Message: fmt.Sprintf("max alternatives must be between 1 and 3, got %d", cfg.MaxAlternatives),
		})
	}
	if !positiveFinite(cfg.OutputRatio) {
		errs = append(errs, FieldError{
			Field:   "routing.output_ratio",
			Message: "output ratio must be a positive number",
		})
	}
	if !positiveFinite(cfg.TokensPerWord) {
		errs = append(errs, FieldError{
			Field:   "routing.tokens_per_word",
			Message: "tokens per word must be a positive number",
		})
	}

	return errs
}

// validateCatalog validates catalog configuration.
func validateCatalog(cfg *CatalogConfig) []FieldError {
	var errs []FieldError

	if cfg.Watch && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "catalog.watch",
			Message: "watch requires a catalog path",
		})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "catalog.debounce",
			Message: "debounce must be non-negative",
		})
	}

	return errs
}

// validateJournal validates decision journal configuration.
func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	// If the journal is disabled, skip validation
	if !cfg.Enabled {
		return errs
	}

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "journal.sqlite.path",
				Message: "SQLite path is required when backend is 'sqlite'",
			})
		}
		if cfg.SQLite.Driver != "sqlite3" && cfg.SQLite.Driver != "sqlite" {
			errs = append(errs, FieldError{
				Field:   "journal.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q: must be 'sqlite3' or 'sqlite'", cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   "journal.sqlite.max_open_conns",
				Message: "max open connections must be at least 1",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 || cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns {
			errs = append(errs, FieldError{
				Field:   "journal.sqlite.max_idle_conns",
				Message: "max idle connections must be between 0 and max open connections",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "journal.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory' or 'sqlite'", cfg.Backend),
		})
	}

	if cfg.Recorder.AsyncBuffer < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.recorder.async_buffer",
			Message: "async buffer must be non-negative",
		})
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.Days > 3650 {
		errs = append(errs, FieldError{
			Field:   "journal.retention.days",
			Message: "retention days exceeds reasonable limit (3650 days / 10 years)",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.retention.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "journal.retention.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Retention.PruneSchedule, err),
			})
		}
	}

	if cfg.Query.DefaultLimit < 1 {
		errs = append(errs, FieldError{
			Field:   "journal.query.default_limit",
			Message: "default limit must be at least 1",
		})
	}
	if cfg.Query.MaxLimit < cfg.Query.DefaultLimit {
		errs = append(errs, FieldError{
			Field:   "journal.query.max_limit",
			Message: "max limit must not be less than default limit",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}
	if cfg.Logging.QueryPreviewLength < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.query_preview_length",
			Message: "query preview length must be non-negative",
		})
	}
	for i, p := range cfg.Logging.RedactPatterns {
		field := fmt.Sprintf("telemetry.logging.redact_patterns[%d]", i)
		if p.Name == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "pattern name is required"})
		}
		if _, err := regexp.Compile(p.Pattern); err != nil || p.Pattern == "" {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: "pattern must be a valid regular expression"})
		}
	}

	// Validate metrics
	if cfg.Metrics.Enabled {
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
		if !sortedPositive(cfg.Metrics.DurationBuckets) {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be positive and strictly increasing",
			})
		}
		if !sortedPositive(cfg.Metrics.CostBuckets) {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.cost_buckets",
				Message: "buckets must be positive and strictly increasing",
			})
		}
	}

	// Validate tracing configuration
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if !inUnitInterval(cfg.Tracing.SampleRatio) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.Health.CheckTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.check_timeout",
			Message: "check timeout must be positive",
		})
	}
	if cfg.Health.CheckTimeout > 60*time.Second {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.check_timeout",
			Message: "check timeout exceeds reasonable limit (60s)",
		})
	}

	return errs
}

func inUnitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func sortedPositive(buckets []float64) bool {
	for i, b := range buckets {
		if b <= 0 || (i > 0 && b <= buckets[i-1]) {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
