package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/switchyard/pkg/cli"
	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/routing"
)

func newModelsCmd(g *globalFlags) *cobra.Command {
	var (
		provider string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models in the catalog",
		Long: `List the registered models with their provider, pricing per 1K tokens,
context window and capabilities.

Examples:
  switchyard models
  switchyard models --provider anthropic --format json`,
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
			logger, err := commandLogger(g, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			mgr, err := newCatalogManager(cfg, logger)
			if err != nil {
				return err
			}

			var list []models.ModelDescriptor
			for _, m := range mgr.Router().ListModels() {
				if provider == "" || strings.EqualFold(m.Provider, provider) {
					list = append(list, m)
				}
			}
			return cli.NewFormatter(f).FormatTo(cmd.OutOrStdout(), modelTable(list))
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "only list models from this provider")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, csv")
	return cmd
}

func modelTable(list []models.ModelDescriptor) *cli.Table {
	t := &cli.Table{
		Headers: []string{"ID", "PROVIDER", "INPUT_PER_1K", "OUTPUT_PER_1K", "MAX_TOKENS", "OUTPUT", "CAPABILITIES"},
		Source:  list,
	}
	for _, m := range list {
		t.AddRow(m.ID, m.Provider,
			fmt.Sprintf("%.5f", m.CostPer1KInput), fmt.Sprintf("%.5f", m.CostPer1KOutput),
			m.MaxTokens, m.Output, capabilities(m))
	}
	return t
}

func capabilities(m models.ModelDescriptor) string {
	var caps []string
	if m.SupportsVision {
		caps = append(caps, "vision")
	}
	if m.SupportsImageGen {
		caps = append(caps, "image-gen")
	}
	if m.SupportsAudio {
		caps = append(caps, "audio")
	}
	if m.SupportsStreaming {
		caps = append(caps, "streaming")
	}
	if len(caps) == 0 {
		return "-"
	}
	return strings.Join(caps, ",")
}

func newRulesCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the routing rules in evaluation order",
		Long: `List the routing rules from highest to lowest priority with their
target model, confidence and conditions.

Examples:
  switchyard rules
  switchyard rules --format json`,
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
			logger, err := commandLogger(g, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			mgr, err := newCatalogManager(cfg, logger)
			if err != nil {
				return err
			}
			return cli.NewFormatter(f).FormatTo(cmd.OutOrStdout(), ruleTable(mgr.Router().ListRules()))
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, csv")
	return cmd
}

func ruleTable(rules []routing.Rule) *cli.Table {
	t := &cli.Table{
		Headers: []string{"PRIORITY", "ID", "NAME", "TARGET", "CONFIDENCE", "CONDITIONS"},
		Source:  rules,
	}
	for _, r := range rules {
		conds, err := json.Marshal(r.Conditions)
		if err != nil {
			conds = []byte("?")
		}
		t.AddRow(r.Priority, r.ID, r.Name, r.TargetModel, fmt.Sprintf("%.2f", r.Confidence), string(conds))
	}
	return t
}
