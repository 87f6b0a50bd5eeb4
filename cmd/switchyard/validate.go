package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/switchyard/pkg/catalog"
	"mercator-hq/switchyard/pkg/cli"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and catalog",
		Long: `Load and validate the configuration file and the model catalog it
points to, without starting the server. Every rule must target a registered
model and every condition must be well formed.

Examples:
  switchyard validate --config config.yaml
  switchyard validate --catalog catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Configuration valid")

			path := cfg.Catalog.Path
			if catalogPath != "" {
				path = catalogPath
			}
			c, err := catalog.Load(path)
			if err != nil {
				return cli.NewConfigError("catalog", err.Error())
			}
			if _, err := c.Build(catalog.OptionsFromConfig(cfg.Routing)); err != nil {
				return cli.NewConfigError("catalog", err.Error())
			}
			fmt.Fprintf(out, "✓ Catalog valid: %d models, %d rules (%s)\n", len(c.Models), len(c.Rules), c.Source)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog file to validate (default: catalog.path from config)")
	return cmd
}
