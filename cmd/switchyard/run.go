package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/switchyard/pkg/catalog"
	"mercator-hq/switchyard/pkg/cli"
	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
	"mercator-hq/switchyard/pkg/journal/recorder"
	"mercator-hq/switchyard/pkg/journal/retention"
	"mercator-hq/switchyard/pkg/journal/storage"
	"mercator-hq/switchyard/pkg/routing"
	"mercator-hq/switchyard/pkg/server"
	"mercator-hq/switchyard/pkg/telemetry/health"
	"mercator-hq/switchyard/pkg/telemetry/logging"
	"mercator-hq/switchyard/pkg/telemetry/metrics"
	"mercator-hq/switchyard/pkg/telemetry/tracing"
)

type runFlags struct {
	listenAddress string
	logLevel      string
	catalogPath   string
	dryRun        bool
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the routing server",
		Long: `Start the Switchyard routing server with the specified configuration.

The server exposes the routing API under /v1, health probes, version
information and Prometheus metrics. When catalog.watch is set, edits to
the catalog file are applied without a restart.

Examples:
  # Start with the built-in catalog
  switchyard run

  # Start with custom config
  switchyard run --config /etc/switchyard/config.yaml

  # Override listen address
  switchyard run --listen 0.0.0.0:8080

  # Validate config and catalog without starting server
  switchyard run --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.listenAddress, "listen", "l", "", "override listen address")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.catalogPath, "catalog", "", "override catalog file")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "validate config and catalog without starting server")
	return cmd
}

func runServer(cmd *cobra.Command, g *globalFlags, f *runFlags) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if f.listenAddress != "" {
		cfg.Server.ListenAddress = f.listenAddress
	}
	if f.logLevel != "" {
		cfg.Telemetry.Logging.Level = f.logLevel
	}
	if f.catalogPath != "" {
		cfg.Catalog.Path = f.catalogPath
	}
	if g.verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	out := cmd.OutOrStdout()
	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, out))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	ctx, stop := cli.SignalContext(commandContext(cmd))
	defer stop()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}()

	mgr, err := catalog.NewManager(cfg.Catalog, catalog.OptionsFromConfig(cfg.Routing),
		catalog.WithMetrics(collector),
		catalog.WithTracer(tracer.Tracer()),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return cli.NewConfigError("catalog", err.Error())
	}
	status := mgr.Status()

	if f.dryRun {
		fmt.Fprintf(out, "✓ Configuration valid\n✓ Catalog valid: %d models, %d rules (%s)\n",
			status.Models, status.Rules, status.Source)
		return nil
	}

	printBanner(out, g, cfg, status)

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("catalog", mgr.Check)

	var redactor *logging.Redactor
	if cfg.Telemetry.Logging.RedactQueries {
		redactor = logging.NewRedactor(cfg.Telemetry.Logging.RedactPatterns)
	}
	svcOpts := []routing.ServiceOption{
		routing.WithTracer(tracer.Tracer()),
		routing.WithMetrics(collector),
		routing.WithLogger(logger),
		routing.WithQueryPreview(redactor, cfg.Telemetry.Logging.QueryPreviewLength),
	}

	var store journal.Storage
	if cfg.Journal.Enabled {
		store, err = storage.Open(cfg.Journal)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("open journal: %w", err))
		}
		defer store.Close()
		checker.RegisterCheck("journal", store.Ping)

		rec := recorder.New(store, cfg.Journal.Recorder,
			recorder.WithMetrics(collector),
			recorder.WithLogger(logger),
		)
		defer rec.Close()
		svcOpts = append(svcOpts, routing.WithJournal(rec))

		if cfg.Journal.Retention.PruneSchedule != "" {
			pruner := retention.NewPruner(store, cfg.Journal.Retention, retention.WithMetrics(collector))
			if err := pruner.Start(ctx); err != nil {
				logger.Warn("failed to start journal retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					logger.Debug("journal retention scheduler started", "next_pruning", next)
				}
			}
		}
		fmt.Fprintf(out, "✓ Decision journal initialized (%s)\n", cfg.Journal.Backend)
	}

	deps := server.Deps{
		Service: routing.NewService(mgr, svcOpts...),
		Catalog: mgr,
		Journal: store,
		Health:  checker,
		Version: versionInfo(),
		Metrics: collector,
		Logger:  logger,
	}
	if cfg.Telemetry.Metrics.Enabled {
		deps.MetricsHandler = collector.Handler()
		deps.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	if tracer.Enabled() {
		deps.Tracer = tracer
	}

	srv, err := server.New(cfg.Server, cfg.Journal.Query, deps)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	scheme := "http"
	if cfg.Server.TLS.Enabled {
		scheme = "https"
	}
	fmt.Fprintf(out, "✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Fprintf(out, "✓ Health endpoint: %s://%s/health\n", scheme, cfg.Server.ListenAddress)
	if deps.MetricsHandler != nil {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s://%s%s\n", scheme, cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	if cfg.Server.Auth.Enabled {
		fmt.Fprintf(out, "✓ API key auth enabled (%d keys)\n", len(cfg.Server.Auth.Keys))
	}
	if cfg.Server.RateLimit.Enabled {
		fmt.Fprintf(out, "✓ Rate limit: %g req/s per client\n", cfg.Server.RateLimit.RequestsPerSecond)
	}

	// The watcher runs until the server returns. A watcher failure is
	// logged and does not stop the server.
	group, groupCtx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(groupCtx)
	defer stopWatch()
	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		group.Go(func() error {
			if err := mgr.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("catalog watcher stopped", "error", err)
			}
			return nil
		})
		fmt.Fprintf(out, "✓ Watching %s for changes\n", cfg.Catalog.Path)
	}
	group.Go(func() error {
		defer stopWatch()
		return srv.Start(groupCtx)
	})
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := group.Wait(); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func printBanner(w io.Writer, g *globalFlags, cfg *config.Config, status catalog.Status) {
	fmt.Fprintf(w, "Switchyard v%s\n", Version)
	if g.configFile != "" {
		fmt.Fprintf(w, "Loading configuration from: %s\n", g.configFile)
	}
	fmt.Fprintln(w, "✓ Configuration loaded")
	fmt.Fprintf(w, "✓ Catalog loaded: %d models, %d rules (%s)\n", status.Models, status.Rules, status.Source)
	if cfg.Telemetry.Tracing.Enabled {
		fmt.Fprintf(w, "✓ Tracing to %s\n", cfg.Telemetry.Tracing.Endpoint)
	}
}
