package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/switchyard/pkg/cli"
	"mercator-hq/switchyard/pkg/journal"
	"mercator-hq/switchyard/pkg/journal/export"
	"mercator-hq/switchyard/pkg/journal/retention"
)

type journalFilterFlags struct {
	model     string
	provider  string
	branch    string
	ruleID    string
	requestID string
	since     time.Duration
	start     string
	end       string
}

func (f *journalFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.model, "model", "", "filter by selected model")
	cmd.Flags().StringVar(&f.provider, "provider", "", "filter by provider")
	cmd.Flags().StringVar(&f.branch, "branch", "", "filter by branch: preference, rule, fallback")
	cmd.Flags().StringVar(&f.ruleID, "rule", "", "filter by matched rule ID")
	cmd.Flags().StringVar(&f.requestID, "request-id", "", "filter by request ID")
	cmd.Flags().DurationVar(&f.since, "since", 0, "only decisions newer than this (e.g. 24h)")
	cmd.Flags().StringVar(&f.start, "start", "", "start time (RFC3339)")
	cmd.Flags().StringVar(&f.end, "end", "", "end time (RFC3339)")
}

func (f *journalFilterFlags) query(now time.Time) (*journal.Query, error) {
	q := &journal.Query{
		Model:     f.model,
		Provider:  f.provider,
		Branch:    f.branch,
		RuleID:    f.ruleID,
		RequestID: f.requestID,
	}
	if f.since > 0 {
		if f.start != "" {
			return nil, fmt.Errorf("--since and --start are mutually exclusive")
		}
		start := now.Add(-f.since)
		q.StartTime = &start
	}
	for _, p := range []struct {
		flag, value string
		dst         **time.Time
	}{
		{"--start", f.start, &q.StartTime},
		{"--end", f.end, &q.EndTime},
	} {
		if p.value == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, p.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", p.flag, err)
		}
		*p.dst = &t
	}
	return q, nil
}

func newJournalCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the decision journal",
		Long: `Query, summarize and prune the decision journal.

The journal stores one record per routing decision: the selected model,
branch, matched rule, confidence, cost estimate and query analysis
summary. Query text is never stored.

Subcommands:
  query  - List decisions with filters, or export them as JSON or CSV
  stats  - Summarize decisions per model and branch
  prune  - Apply the retention policy now`,
	}
	cmd.AddCommand(newJournalQueryCmd(g), newJournalStatsCmd(g), newJournalPruneCmd(g))
	return cmd
}

func newJournalQueryCmd(g *globalFlags) *cobra.Command {
	var (
		filters journalFilterFlags
		limit   int
		offset  int
		sort    string
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List journaled decisions",
		Long: `List journaled decisions, newest first.

Examples:
  # Last day of rule decisions
  switchyard journal query --since 24h --branch rule

  # Export everything routed to one model as CSV
  switchyard journal query --model gpt-4o --limit 1000 --format csv -o gpt4o.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cli.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			q, err := filters.query(time.Now())
			if err != nil {
				return err
			}
			q.Limit, q.Offset, q.SortOrder = limit, offset, sort
			journal.ApplyQueryDefaults(q, cfg.Journal.Query)
			if err := journal.ValidateQuery(q, cfg.Journal.Query); err != nil {
				return err
			}

			store, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := commandContext(cmd)
			records, err := store.Query(ctx, q)
			if err != nil {
				return cli.NewCommandError("journal query", err)
			}

			out, closeOut, err := outputWriter(cmd, output)
			if err != nil {
				return err
			}
			defer closeOut()

			if f == cli.FormatText {
				return cli.NewFormatter(f).FormatTo(out, recordTable(records))
			}
			exporter, err := export.New(string(f))
			if err != nil {
				return err
			}
			if err := exporter.Export(ctx, records, out); err != nil {
				return &journal.ExportError{Format: string(f), RecordCount: len(records), Cause: err}
			}
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "max results (default: journal.query.default_limit)")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.Flags().StringVar(&sort, "sort", journal.SortDesc, "sort order by time: asc, desc")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func recordTable(records []*journal.Record) *cli.Table {
	t := &cli.Table{
		Headers: []string{"TIME", "REQUEST_ID", "BRANCH", "RULE", "MODEL", "CONFIDENCE", "COST_USD", "COMPLEXITY", "CONTENT_TYPE"},
		Source:  records,
	}
	for _, r := range records {
		t.AddRow(r.Timestamp.Format(time.RFC3339), r.RequestID, r.Branch, r.RuleID, r.Model,
			fmt.Sprintf("%.2f", r.Confidence), fmt.Sprintf("%.6f", r.EstimatedCost), r.Complexity, r.ContentType)
	}
	return t
}

func newJournalStatsCmd(g *globalFlags) *cobra.Command {
	var (
		filters journalFilterFlags
		format  string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize journaled decisions",
		Long: `Summarize journaled decisions: totals, per-model counts, cost and mean
confidence, and per-branch counts.

Examples:
  switchyard journal stats --since 168h
  switchyard journal stats --provider openai --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cli.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			q, err := filters.query(time.Now())
			if err != nil {
				return err
			}
			journal.ApplyQueryDefaults(q, cfg.Journal.Query)
			if err := journal.ValidateQuery(q, cfg.Journal.Query); err != nil {
				return err
			}

			store, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			sum, err := store.Summarize(commandContext(cmd), q)
			if err != nil {
				return cli.NewCommandError("journal stats", err)
			}

			out := cmd.OutOrStdout()
			if f != cli.FormatText {
				return cli.NewFormatter(f).FormatTo(out, summaryTable(sum))
			}
			fmt.Fprintf(out, "Decisions:      %d\n", sum.TotalDecisions)
			fmt.Fprintf(out, "Estimated cost: $%.6f\n", sum.TotalEstimatedCost)
			if sum.Oldest != nil && sum.Newest != nil {
				fmt.Fprintf(out, "Period:         %s to %s\n", sum.Oldest.Format(time.RFC3339), sum.Newest.Format(time.RFC3339))
			}
			for _, b := range []string{"preference", "rule", "fallback"} {
				fmt.Fprintf(out, "  %-12s  %d\n", b, sum.ByBranch[b])
			}
			fmt.Fprintln(out)
			return cli.NewFormatter(f).FormatTo(out, summaryTable(sum))
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, csv")
	return cmd
}

func summaryTable(sum *journal.Summary) *cli.Table {
	t := &cli.Table{
		Headers: []string{"MODEL", "PROVIDER", "DECISIONS", "COST_USD", "MEAN_CONFIDENCE"},
		Source:  sum,
	}
	for _, m := range sum.ByModel {
		t.AddRow(m.Model, m.Provider, m.Decisions, fmt.Sprintf("%.6f", m.EstimatedCost), fmt.Sprintf("%.3f", m.MeanConfidence))
	}
	return t
}

func newJournalPruneCmd(g *globalFlags) *cobra.Command {
	var (
		days       int
		maxRecords int64
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete decisions outside the retention policy",
		Long: `Delete decisions older than the retention period, then the oldest
decisions beyond the record cap. Flags override journal.retention.

Examples:
  switchyard journal prune
  switchyard journal prune --days 7 --max-records 100000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			policy := cfg.Journal.Retention
			if cmd.Flags().Changed("days") {
				policy.Days = days
			}
			if cmd.Flags().Changed("max-records") {
				policy.MaxRecords = maxRecords
			}
			if policy.Days < 0 || policy.MaxRecords < 0 {
				return cli.NewConfigError("retention", "days and max-records must be >= 0")
			}

			store, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := retention.NewPruner(store, policy).Prune(commandContext(cmd))
			if err != nil {
				return cli.NewCommandError("journal prune", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d decisions\n", deleted)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention period in days (0 keeps records forever)")
	cmd.Flags().Int64Var(&maxRecords, "max-records", 0, "maximum records to keep (0 is unlimited)")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// outputWriter opens path for writing, or returns the command's stdout.
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return file, func() { file.Close() }, nil
}
