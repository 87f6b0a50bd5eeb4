package config

import (
	"math"
	"time"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
	DefaultMaxBodyBytes    = int64(1 << 20)

	// API protection defaults
	DefaultRateLimitRequestsPerSecond = 50.0
	DefaultRateLimitIdleTTL           = 10 * time.Minute
	DefaultTLSMinVersion              = "1.3"
	DefaultTLSReloadInterval          = 5 * time.Minute

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 300

	// Routing defaults
	DefaultRoutingModel       = "gpt-3.5-turbo"
	DefaultFallbackConfidence = 0.7
	DefaultMaxAlternatives    = 3
	DefaultVisionOverride     = true
	DefaultOutputRatio        = 0.5
	DefaultTokensPerWord      = 1.3

	// Catalog defaults
	DefaultCatalogDebounce = 100 * time.Millisecond

	// Journal defaults
	DefaultJournalEnabled              = false
	DefaultJournalBackend              = "memory"
	DefaultJournalSQLitePath           = "data/journal.db"
	DefaultJournalSQLiteDriver         = "sqlite3"
	DefaultJournalSQLiteMaxOpenConns   = 10
	DefaultJournalSQLiteMaxIdleConns   = 5
	DefaultJournalSQLiteWALMode        = true
	DefaultJournalSQLiteBusyTimeout    = 5 * time.Second
	DefaultJournalRecorderAsyncBuffer  = 1000
	DefaultJournalRecorderWriteTimeout = 5 * time.Second
	DefaultJournalRetentionDays        = 30
	DefaultJournalRetentionSchedule    = "0 3 * * *"
	DefaultJournalQueryDefaultLimit    = 100
	DefaultJournalQueryMaxLimit        = 1000

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultRedactQueries      = true
	DefaultQueryPreviewLength = 80
	DefaultMetricsEnabled     = true
	DefaultPrometheusPath     = "/metrics"
	DefaultMetricsNamespace   = "switchyard"
	DefaultMetricsSubsystem   = "router"
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "switchyard"
	DefaultTracingInsecure    = true
	DefaultTracingTimeout     = 10 * time.Second
	DefaultHealthCheckTimeout = 5 * time.Second
)

// NewDefaultConfig returns a configuration with every field at its default.
// Boolean fields whose default is true are set here, before the YAML file is
// decoded over the result, so that an explicit "false" in the file wins.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.Routing.VisionOverride = DefaultVisionOverride
	cfg.Routing.FallbackConfidence = DefaultFallbackConfidence
	cfg.Journal.Enabled = DefaultJournalEnabled
	cfg.Journal.SQLite.WALMode = DefaultJournalSQLiteWALMode
	cfg.Telemetry.Logging.RedactQueries = DefaultRedactQueries
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	cfg.Telemetry.Logging.QueryPreviewLength = DefaultQueryPreviewLength
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Booleans and
// routing.fallback_confidence, where zero is meaningful, are left alone; see
// NewDefaultConfig.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyRoutingDefaults(&cfg.Routing)

	if cfg.Catalog.Debounce == 0 {
		cfg.Catalog.Debounce = DefaultCatalogDebounce
	}

	applyJournalDefaults(&cfg.Journal)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(s *ServerConfig) {
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.MaxHeaderBytes == 0 {
		s.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	cors := &s.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}

	rl := &s.RateLimit
	if rl.RequestsPerSecond == 0 {
		rl.RequestsPerSecond = DefaultRateLimitRequestsPerSecond
	}
	if rl.Burst == 0 {
		rl.Burst = int(math.Ceil(rl.RequestsPerSecond * 2))
	}
	if rl.IdleTTL == 0 {
		rl.IdleTTL = DefaultRateLimitIdleTTL
	}

	if s.TLS.MinVersion == "" {
		s.TLS.MinVersion = DefaultTLSMinVersion
	}
	if s.TLS.ReloadInterval == 0 {
		s.TLS.ReloadInterval = DefaultTLSReloadInterval
	}
}

func applyRoutingDefaults(r *RoutingConfig) {
	if r.DefaultModel == "" {
		r.DefaultModel = DefaultRoutingModel
	}
	if r.MaxAlternatives == 0 {
		r.MaxAlternatives = DefaultMaxAlternatives
	}
	if r.OutputRatio == 0 {
		r.OutputRatio = DefaultOutputRatio
	}
	if r.TokensPerWord == 0 {
		r.TokensPerWord = DefaultTokensPerWord
	}
}

func applyJournalDefaults(j *JournalConfig) {
	if j.Backend == "" {
		j.Backend = DefaultJournalBackend
	}

	if j.SQLite.Path == "" {
		j.SQLite.Path = DefaultJournalSQLitePath
	}
	if j.SQLite.Driver == "" {
		j.SQLite.Driver = DefaultJournalSQLiteDriver
	}
	if j.SQLite.MaxOpenConns == 0 {
		j.SQLite.MaxOpenConns = DefaultJournalSQLiteMaxOpenConns
	}
	if j.SQLite.MaxIdleConns == 0 {
		j.SQLite.MaxIdleConns = DefaultJournalSQLiteMaxIdleConns
	}
	if j.SQLite.BusyTimeout == 0 {
		j.SQLite.BusyTimeout = DefaultJournalSQLiteBusyTimeout
	}

	if j.Recorder.AsyncBuffer == 0 {
		j.Recorder.AsyncBuffer = DefaultJournalRecorderAsyncBuffer
	}
	if j.Recorder.WriteTimeout == 0 {
		j.Recorder.WriteTimeout = DefaultJournalRecorderWriteTimeout
	}

	if j.Retention.Days == 0 {
		j.Retention.Days = DefaultJournalRetentionDays
	}
	if j.Retention.PruneSchedule == "" {
		j.Retention.PruneSchedule = DefaultJournalRetentionSchedule
	}

	if j.Query.DefaultLimit == 0 {
		j.Query.DefaultLimit = DefaultJournalQueryDefaultLimit
	}
	if j.Query.MaxLimit == 0 {
		j.Query.MaxLimit = DefaultJournalQueryMaxLimit
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLoggingLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLoggingFormat
	}

	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultPrometheusPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Metrics.Subsystem == "" {
		t.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(t.Metrics.DurationBuckets) == 0 {
		// Routing is in-process; most decisions finish well under a millisecond.
		t.Metrics.DurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
	}
	if len(t.Metrics.CostBuckets) == 0 {
		t.Metrics.CostBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}
	}

	if t.Tracing.Sampler == "" {
		t.Tracing.Sampler = DefaultTracingSampler
	}
	if t.Tracing.SampleRatio == 0 {
		t.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Tracing.Endpoint == "" {
		t.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingServiceName
	}
	if t.Tracing.Timeout == 0 {
		t.Tracing.Timeout = DefaultTracingTimeout
	}

	if t.Health.CheckTimeout == 0 {
		t.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
