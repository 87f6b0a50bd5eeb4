package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/switchyard/pkg/cli"
	"mercator-hq/switchyard/pkg/routing"
)

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	var (
		files  []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "analyze [query]",
		Short: "Print the analysis of a query without routing it",
		Long: `Analyze a query and print its length, word and token counts, keywords,
complexity, content type, languages, sentiment, urgency and attachment
summary.

Examples:
  switchyard analyze "Debug this JavaScript error ASAP"
  switchyard analyze "Describe this chart" --file image/png:1024 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cli.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == cli.FormatCSV {
				return fmt.Errorf("analyze supports text and json output")
			}
			metas, err := parseFileFlags(files)
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

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			ctx := commandContext(cmd)
			a := routing.NewService(mgr, routing.WithLogger(logger)).Analyze(ctx, query, metas)

			out := cmd.OutOrStdout()
			if f == cli.FormatJSON {
				return cli.NewFormatter(f).FormatTo(out, a)
			}

			t := &cli.Table{}
			t.AddRow("Length:", a.Length)
			t.AddRow("Words:", a.WordCount)
			t.AddRow("Est. tokens:", a.EstimatedTokens)
			t.AddRow("Complexity:", a.Complexity)
			t.AddRow("Content type:", a.ContentType)
			t.AddRow("Keywords:", strings.Join(a.Keywords, ", "))
			t.AddRow("Languages:", strings.Join(a.Languages, ", "))
			t.AddRow("Sentiment:", a.Sentiment)
			t.AddRow("Urgency:", a.Urgency)
			t.AddRow("Confidence:", fmt.Sprintf("%.2f", a.Confidence))
			if a.HasFiles {
				t.AddRow("Files:", fmt.Sprintf("%d (%d bytes)", a.FileCount, a.TotalFileSize))
				t.AddRow("Attachments:", attachmentKinds(a.HasImages, a.HasDocuments, a.HasAudio, a.HasVideo))
			}
			return cli.NewFormatter(cli.FormatText).FormatTo(out, t)
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "attachment as type[:size[:name]] (repeatable)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")
	return cmd
}

func attachmentKinds(images, documents, audio, video bool) string {
	var kinds []string
	for _, k := range []struct {
		on   bool
		name string
	}{{images, "image"}, {documents, "document"}, {audio, "audio"}, {video, "video"}} {
		if k.on {
			kinds = append(kinds, k.name)
		}
	}
	if len(kinds) == 0 {
		return "other"
	}
	return strings.Join(kinds, ", ")
}
