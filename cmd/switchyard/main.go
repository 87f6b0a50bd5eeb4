// Switchyard routes AI queries to the most suitable model.
//
// It analyzes each query (content type, complexity, keywords, attachments),
// matches it against a prioritized rule set and reports the selected model
// with its reasoning, confidence, estimated cost and cheaper alternatives.
//
// Usage:
//
//	# Start the routing server with the built-in catalog
//	switchyard run
//
//	# Start with a configuration file
//	switchyard run --config /etc/switchyard/config.yaml
//
//	# Route a single query
//	switchyard route "Write a Python function to calculate fibonacci numbers"
//
//	# Inspect the catalog
//	switchyard models
//	switchyard rules
//
//	# Query the decision journal
//	switchyard journal query --since 24h --format csv
package main

import (
	"fmt"
	"os"

	"mercator-hq/switchyard/pkg/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
