package config

import "time"

// Config is the root configuration structure for Switchyard.
// It contains the HTTP server, routing engine, model catalog, decision
// journal and telemetry settings.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS.
	Server ServerConfig `yaml:"server"`

	// Routing contains routing engine policy constants.
	Routing RoutingConfig `yaml:"routing"`

	// Catalog configures where models and rules are loaded from.
	Catalog CatalogConfig `yaml:"catalog"`

	// Journal configures the decision journal.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains configuration for observability including logging,
	// metrics, tracing, and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits request body size.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// Auth protects the /v1 API with API keys.
	Auth AuthConfig `yaml:"auth"`

	// RateLimit limits /v1 requests per client.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// TLS serves HTTPS with certificates reloaded from disk.
	TLS TLSConfig `yaml:"tls"`
}

// AuthConfig contains API key authentication settings. Probes, version and
// metrics endpoints are never authenticated.
type AuthConfig struct {
	// Enabled requires a valid API key on every /v1 request.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Keys are the accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig is one accepted API key. Clients send it as
// "Authorization: Bearer <key>" or in the X-API-Key header.
type APIKeyConfig struct {
	// Name identifies the client in logs and rate limits.
	Name string `yaml:"name"`

	// Key is the secret value.
	Key string `yaml:"key"`

	// Disabled rejects the key without removing it.
	Disabled bool `yaml:"disabled"`
}

// RateLimitConfig contains per-client rate limits. Clients are identified
// by API key name when auth is enabled, otherwise by remote address.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained per-client rate. 0 disables it.
	// Default: 50
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the per-second bucket capacity.
	// Default: 2 × RequestsPerSecond
	Burst int `yaml:"burst"`

	// RequestsPerMinute is a second, longer window. 0 disables it.
	// Default: 0
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// MaxConcurrent limits in-flight requests per client. 0 disables it.
	// Default: 0
	MaxConcurrent int `yaml:"max_concurrent"`

	// IdleTTL is how long an idle client's limiter is kept.
	// Default: 10m
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

// TLSConfig contains HTTPS settings.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version: "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// changes.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Accept", "Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 300
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// RoutingConfig contains routing policy constants.
type RoutingConfig struct {
	// DefaultModel is selected when no rule matches. Must exist in the catalog.
	// A catalog file may override it.
	// Default: "gpt-3.5-turbo"
	DefaultModel string `yaml:"default_model"`

	// FallbackConfidence is reported on fallback decisions.
	// Default: 0.7
	FallbackConfidence float64 `yaml:"fallback_confidence"`

	// MaxAlternatives bounds alternatives per decision (1-3).
	// Default: 3
	MaxAlternatives int `yaml:"max_alternatives"`

	// VisionOverride lets a rule targeting a vision model match any request
	// with image attachments.
	// Default: true
	VisionOverride bool `yaml:"vision_override"`

	// OutputRatio is the assumed output-to-input token ratio for cost estimates.
	// Default: 0.5
	OutputRatio float64 `yaml:"output_ratio"`

	// TokensPerWord is the token estimation ratio.
	// Default: 1.3
	TokensPerWord float64 `yaml:"tokens_per_word"`
}

// CatalogConfig configures the model and rule catalog.
type CatalogConfig struct {
	// Path is a YAML catalog file. Empty uses the built-in catalog.
	Path string `yaml:"path"`

	// Watch reloads the catalog when the file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce delays reloads until writes settle.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`
}

// JournalConfig configures the decision journal. The journal stores decision
// summaries only; query text is never recorded.
type JournalConfig struct {
	// Enabled controls whether decisions are journaled.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects storage.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`

	// Query contains query limits.
	Query QueryConfig `yaml:"query"`
}

// SQLiteConfig contains SQLite journal configuration.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite3" (cgo, mattn/go-sqlite3), "sqlite" (pure Go, modernc.org/sqlite)
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains journal recorder configuration.
type RecorderConfig struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains retention policy configuration.
type RetentionConfig struct {
	// Days is the number of days to retain records. 0 keeps records forever.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of records to keep. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// QueryConfig contains journal query limits.
type QueryConfig struct {
	// DefaultLimit applies when a query does not set a limit.
	// Default: 100
	DefaultLimit int `yaml:"default_limit"`

	// MaxLimit caps the limit a query may request.
	// Default: 1000
	MaxLimit int `yaml:"max_limit"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactQueries masks PII (emails, phone numbers, card numbers, API keys)
	// in logged query previews and log attributes.
	// Default: true
	RedactQueries bool `yaml:"redact_queries"`

	// QueryPreviewLength is how many characters of a query are logged at
	// debug level. 0 disables previews.
	// Default: 80
	QueryPreviewLength int `yaml:"query_preview_length"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "switchyard"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "router"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for routing and HTTP durations (seconds).
	// Default: [0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// CostBuckets defines histogram buckets for estimated cost (USD).
	// Default: [0.00001, 0.0001, 0.001, 0.01, 0.1, 1]
	CostBuckets []float64 `yaml:"cost_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "switchyard"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
