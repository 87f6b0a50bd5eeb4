package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mercator-hq/switchyard/pkg/cli"
	"mercator-hq/switchyard/pkg/journal/recorder"
	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/routing"
)

type routeFlags struct {
	preference string
	files      []string
	format     string
	batch      string
	record     bool
}

func newRouteCmd(g *globalFlags) *cobra.Command {
	f := &routeFlags{}

	cmd := &cobra.Command{
		Use:   "route [query]",
		Short: "Route a query and print the decision",
		Long: `Route a query through the configured catalog and print the selected
model, the reasoning, confidence, estimated cost and alternatives.

Attachments are described with --file type[:size[:name]]. Only metadata
is used; file contents are never read.

With --batch, queries are read one per line from a file ("-" for stdin)
and the decisions are printed as a table.

Examples:
  # Route a single query
  switchyard route "Write a Python function to calculate fibonacci numbers"

  # Prefer a model
  switchyard route "Summarize this report" --prefer claude-3-haiku

  # Route an image question
  switchyard route "What is in this picture?" --file image/png:204800:cat.png

  # Route a file of queries and export CSV
  switchyard route --batch queries.txt --format csv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.batch != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MaximumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, g, f, args)
		},
	}

	cmd.Flags().StringVarP(&f.preference, "prefer", "p", "", "preferred model ID")
	cmd.Flags().StringArrayVarP(&f.files, "file", "f", nil, "attachment as type[:size[:name]] (repeatable)")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text, json, csv")
	cmd.Flags().StringVar(&f.batch, "batch", "", "route queries read one per line from a file (- for stdin)")
	cmd.Flags().BoolVar(&f.record, "record", false, "record decisions in the configured journal")
	return cmd
}

func runRoute(cmd *cobra.Command, g *globalFlags, f *routeFlags, args []string) error {
	format, err := cli.ParseFormat(f.format)
	if err != nil {
		return err
	}
	files, err := parseFileFlags(f.files)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger, err := commandLogger(g, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	mgr, err := newCatalogManager(cfg, logger)
	if err != nil {
		return err
	}

	opts := []routing.ServiceOption{routing.WithLogger(logger)}
	if f.record {
		store, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		rec := recorder.New(store, cfg.Journal.Recorder, recorder.WithLogger(logger))
		defer rec.Close()
		opts = append(opts, routing.WithJournal(rec))
	}
	svc := routing.NewService(mgr, opts...)

	ctx := commandContext(cmd)

	if f.batch != "" {
		queries, err := readQueries(cmd, f.batch)
		if err != nil {
			return err
		}
		return routeBatch(ctx, cmd, svc, queries, f.preference, files, format)
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	d := svc.Route(ctx, uuid.NewString(), query, f.preference, files)

	out := cmd.OutOrStdout()
	switch format {
	case cli.FormatJSON:
		return cli.NewFormatter(format).FormatTo(out, d)
	case cli.FormatCSV:
		return cli.NewFormatter(format).FormatTo(out, decisionTable([]routing.Decision{d}))
	default:
		printDecision(out, &d)
		return nil
	}
}

func routeBatch(ctx context.Context, cmd *cobra.Command, svc *routing.Service, queries []string,
	preference string, files []content.FileMeta, format cli.OutputFormat) error {
	progress := cli.NewProgress(cmd.ErrOrStderr(), len(queries), "queries")

	decisions := make([]routing.Decision, 0, len(queries))
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			progress.Fail(err)
			return err
		}
		decisions = append(decisions, svc.Route(ctx, uuid.NewString(), q, preference, files))
		progress.Step()
	}
	progress.Done()

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), decisionTable(decisions))
}

// readQueries reads non-empty lines from path, or stdin for "-".
func readQueries(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open batch file: %w", err)
		}
		defer file.Close()
		r = file
	}

	var queries []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	if len(queries) == 0 {
		return nil, errors.New("batch file contains no queries")
	}
	return queries, nil
}

func decisionTable(decisions []routing.Decision) *cli.Table {
	t := &cli.Table{
		Headers: []string{"#", "MODEL", "PROVIDER", "BRANCH", "RULE", "CONFIDENCE", "COST_USD", "ALTERNATIVES"},
		Source:  decisions,
	}
	for i := range decisions {
		d := &decisions[i]
		t.AddRow(i+1, d.Model.ID, d.Model.Provider, d.Branch, d.RuleID,
			fmt.Sprintf("%.2f", d.Confidence), fmt.Sprintf("%.6f", d.EstimatedCost),
			strings.Join(d.AlternativeIDs(), ";"))
	}
	return t
}

func printDecision(w io.Writer, d *routing.Decision) {
	fmt.Fprintf(w, "Model:        %s (%s, %s)\n", d.Model.Name, d.Model.ID, d.Model.Provider)
	branch := string(d.Branch)
	if d.RuleID != "" {
		branch += " (" + d.RuleID + ")"
	}
	fmt.Fprintf(w, "Branch:       %s\n", branch)
	fmt.Fprintf(w, "Reasoning:    %s\n", d.Reasoning)
	fmt.Fprintf(w, "Confidence:   %.2f\n", d.Confidence)
	fmt.Fprintf(w, "Est. cost:    $%.6f (%d input + %d output tokens)\n",
		d.EstimatedCost, d.Cost.InputTokens, d.Cost.OutputTokens)
	if len(d.Alternatives) > 0 {
		fmt.Fprintf(w, "Alternatives: %s\n", strings.Join(d.AlternativeIDs(), ", "))
	}
	if d.PreferenceIgnored {
		fmt.Fprintln(w, "Note:         preferred model is not registered and was ignored")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, d.Summary())
}
