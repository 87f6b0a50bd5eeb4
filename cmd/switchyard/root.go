package main

import (
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "switchyard",
		Short: "Switchyard - AI query routing engine",
		Long: `Switchyard picks the best model for an AI query.

Each query is analyzed for content type, complexity, keywords and
attachments, then matched against a prioritized rule set. The decision
names the selected model with its reasoning, a confidence score, an
estimated cost and up to three cheaper alternatives.

Models and rules come from a YAML catalog that can be reloaded while the
server runs. Decisions can be journaled to SQLite for later analysis.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "config file path (default: built-in defaults)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newRunCmd(g),
		newRouteCmd(g),
		newAnalyzeCmd(g),
		newModelsCmd(g),
		newRulesCmd(g),
		newValidateCmd(g),
		newJournalCmd(g),
		newVersionCmd(),
		newCompletionCmd(root),
	)
	return root
}
