package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SWITCHYARD_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and fills any remaining zero values.
// Unknown fields are rejected. The result is not validated.
func Parse(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SWITCHYARD_SECTION_FIELD (e.g., SWITCHYARD_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
// An empty path starts from the defaults.
//
// The loading sequence is:
// 1. Load YAML from file (or defaults)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = NewDefaultConfig()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	applyEnvOverrides(cfg, os.Getenv)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed values are ignored and the file value is kept.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	env := envReader{getenv: getenv}

	// Server overrides
	env.str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	env.duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	env.duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	env.duration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	env.duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	env.integer("SERVER_MAX_HEADER_BYTES", &cfg.Server.MaxHeaderBytes)
	env.boolean("SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)
	env.list("SERVER_CORS_ALLOWED_ORIGINS", &cfg.Server.CORS.AllowedOrigins)
	env.boolean("SERVER_AUTH_ENABLED", &cfg.Server.Auth.Enabled)
	env.boolean("SERVER_RATE_LIMIT_ENABLED", &cfg.Server.RateLimit.Enabled)
	env.float("SERVER_RATE_LIMIT_REQUESTS_PER_SECOND", &cfg.Server.RateLimit.RequestsPerSecond)
	env.integer("SERVER_RATE_LIMIT_BURST", &cfg.Server.RateLimit.Burst)
	env.integer("SERVER_RATE_LIMIT_MAX_CONCURRENT", &cfg.Server.RateLimit.MaxConcurrent)
	env.boolean("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	env.str("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	env.str("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)

	// Routing overrides
	env.str("ROUTING_DEFAULT_MODEL", &cfg.Routing.DefaultModel)
	env.float("ROUTING_FALLBACK_CONFIDENCE", &cfg.Routing.FallbackConfidence)
	env.integer("ROUTING_MAX_ALTERNATIVES", &cfg.Routing.MaxAlternatives)
	env.boolean("ROUTING_VISION_OVERRIDE", &cfg.Routing.VisionOverride)
	env.float("ROUTING_OUTPUT_RATIO", &cfg.Routing.OutputRatio)

	// Catalog overrides
	env.str("CATALOG_PATH", &cfg.Catalog.Path)
	env.boolean("CATALOG_WATCH", &cfg.Catalog.Watch)
	env.duration("CATALOG_DEBOUNCE", &cfg.Catalog.Debounce)

	// Journal overrides
	env.boolean("JOURNAL_ENABLED", &cfg.Journal.Enabled)
	env.str("JOURNAL_BACKEND", &cfg.Journal.Backend)
	env.str("JOURNAL_SQLITE_PATH", &cfg.Journal.SQLite.Path)
	env.str("JOURNAL_SQLITE_DRIVER", &cfg.Journal.SQLite.Driver)
	env.integer("JOURNAL_RETENTION_DAYS", &cfg.Journal.Retention.Days)
	env.str("JOURNAL_RETENTION_PRUNE_SCHEDULE", &cfg.Journal.Retention.PruneSchedule)

	// Telemetry overrides
	env.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	env.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	env.boolean("TELEMETRY_LOGGING_REDACT_QUERIES", &cfg.Telemetry.Logging.RedactQueries)
	env.boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	env.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	env.boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	env.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	env.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

// envReader reads SWITCHYARD_-prefixed variables into config fields.
type envReader struct {
	getenv func(string) string
}

func (e envReader) lookup(key string) (string, bool) {
	val := e.getenv(EnvPrefix + key)
	return val, val != ""
}

func (e envReader) str(key string, dst *string) {
	if val, ok := e.lookup(key); ok {
		*dst = val
	}
}

func (e envReader) boolean(key string, dst *bool) {
	if val, ok := e.lookup(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func (e envReader) integer(key string, dst *int) {
	if val, ok := e.lookup(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func (e envReader) float(key string, dst *float64) {
	if val, ok := e.lookup(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func (e envReader) duration(key string, dst *time.Duration) {
	if val, ok := e.lookup(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func (e envReader) list(key string, dst *[]string) {
	if val, ok := e.lookup(key); ok {
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			*dst = items
		}
	}
}
