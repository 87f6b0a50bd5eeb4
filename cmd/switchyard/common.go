package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"mercator-hq/switchyard/pkg/catalog"
	"mercator-hq/switchyard/pkg/cli"
	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
	"mercator-hq/switchyard/pkg/journal/storage"
	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/telemetry/logging"
)

// loadConfig reads the config file (or the defaults) with environment
// overrides applied.
func loadConfig(g *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(g.configFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	return cfg, nil
}

// commandLogger is the logger for one-shot commands: warnings and errors on
// w, or everything with --verbose.
func commandLogger(g *globalFlags, cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging, w)
	lc.Format = string(logging.FormatText)
	lc.Level = "warn"
	if g.verbose {
		lc.Level = "debug"
	}
	return logging.New(lc)
}

// newCatalogManager loads the configured catalog without watching it.
func newCatalogManager(cfg *config.Config, logger *slog.Logger) (*catalog.Manager, error) {
	mgr, err := catalog.NewManager(cfg.Catalog, catalog.OptionsFromConfig(cfg.Routing), catalog.WithLogger(logger))
	if err != nil {
		return nil, cli.NewConfigError("catalog.path", err.Error())
	}
	return mgr, nil
}

// parseFileFlags parses --file values of the form type[:size[:name]],
// e.g. "image/png:2048:cat.png".
func parseFileFlags(values []string) ([]content.FileMeta, error) {
	files := make([]content.FileMeta, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, ":", 3)
		f := content.FileMeta{Type: strings.TrimSpace(parts[0])}
		if f.Type == "" {
			return nil, fmt.Errorf("invalid --file %q: missing type", v)
		}
		if len(parts) > 1 && parts[1] != "" {
			size, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil || size < 0 {
				return nil, fmt.Errorf("invalid --file %q: size must be a non-negative integer", v)
			}
			f.Size = size
		}
		if len(parts) > 2 {
			f.Name = parts[2]
		}
		files = append(files, f)
	}
	return files, nil
}

// openJournal opens the configured journal for the offline journal
// commands. The memory backend does not outlive a process, so it is
// rejected here.
func openJournal(cfg *config.Config) (journal.Storage, error) {
	if !cfg.Journal.Enabled {
		return nil, cli.NewConfigError("journal.enabled", "the decision journal is disabled")
	}
	if cfg.Journal.Backend == "" || cfg.Journal.Backend == "memory" {
		return nil, cli.NewConfigError("journal.backend", "journal commands need a persistent backend such as sqlite")
	}
	store, err := storage.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return store, nil
}
