// Package config provides configuration management for Switchyard.
//
// This package handles loading and validating configuration from YAML files
// with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("switchyard.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("switchyard.yaml")
//
// LoadConfigWithEnvOverrides accepts an empty path and starts from
// NewDefaultConfig.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SWITCHYARD_SECTION_FIELD.
// For example:
//
//   - SWITCHYARD_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SWITCHYARD_ROUTING_DEFAULT_MODEL overrides routing.default_model
//   - SWITCHYARD_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// Boolean fields that default to true are preset before the file is decoded,
// so "vision_override: false" in a file is honored.
//
// # Validation
//
// Validate collects every problem into a single ValidationError whose Errors
// slice holds one FieldError per offending field, addressed by its dotted
// YAML path (e.g. "routing.max_alternatives").
package config
