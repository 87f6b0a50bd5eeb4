/*
Package cli provides command-line interface utilities for Switchyard.

The cli package includes output formatters, progress reporting, signal
handling and the error types used by the switchyard command.

Output Formatting:

Commands print either free text or a Table. Text output aligns table
columns, CSV output writes the rows, and JSON output encodes the table's
Source value:

	table := &cli.Table{Headers: []string{"ID", "PROVIDER"}, Source: models}
	for _, m := range models {
		table.AddRow(m.ID, m.Provider)
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, table)

Progress Reporting:

Batch routing reports progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(queries)))
	for i, q := range queries {
		// route q
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
