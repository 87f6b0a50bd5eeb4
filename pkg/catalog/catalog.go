package catalog

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/routing"
)

// Catalog is the set of models and rules a router is built from.
//
// In a catalog file an omitted models or rules section falls back to the
// built-in list, while an explicit empty list (rules: []) means none.
type Catalog struct {
	// DefaultModel overrides the configured fallback model when set.
	DefaultModel string `yaml:"default_model,omitempty"`

	Models []models.ModelDescriptor `yaml:"models"`
	Rules  []routing.Rule           `yaml:"rules"`

	// Source is the file the catalog was loaded from, or "builtin".
	Source string `yaml:"-"`
}

// SourceBuiltin names the built-in catalog.
const SourceBuiltin = "builtin"

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Models: models.DefaultModels(),
		Rules:  routing.DefaultRules(),
		Source: SourceBuiltin,
	}
}

// Load reads a catalog file. An empty path returns the built-in catalog.
// The result is parsed but not validated; Build validates it.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "read failed", Cause: err}
	}

	c, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	c.Source = path
	return c, nil
}

// Parse decodes a YAML catalog. Unknown fields are rejected so typos in
// rule conditions do not silently become wildcards.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Message: "invalid YAML", Cause: err}
	}

	if c.Models == nil {
		c.Models = models.DefaultModels()
	}
	if c.Rules == nil {
		c.Rules = routing.DefaultRules()
	}
	return &c, nil
}

// Build validates the catalog and constructs a router. The catalog's
// default model, when set, replaces opts.DefaultModel.
func (c *Catalog) Build(opts routing.Options) (*routing.Router, error) {
	registry, err := models.NewRegistry(c.Models)
	if err != nil {
		return nil, err
	}
	if c.DefaultModel != "" {
		opts.DefaultModel = c.DefaultModel
	}
	return routing.NewRouter(registry, c.Rules, opts)
}

// OptionsFromConfig converts routing configuration into router options.
func OptionsFromConfig(cfg config.RoutingConfig) routing.Options {
	return routing.Options{
		DefaultModel:       cfg.DefaultModel,
		FallbackConfidence: cfg.FallbackConfidence,
		MaxAlternatives:    cfg.MaxAlternatives,
		VisionOverride:     cfg.VisionOverride,
		OutputRatio:        cfg.OutputRatio,
		TokensPerWord:      cfg.TokensPerWord,
	}
}
