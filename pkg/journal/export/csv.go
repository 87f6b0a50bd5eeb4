package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"mercator-hq/switchyard/pkg/journal"
)

// CSVExporter exports records as CSV, one row per record.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

var csvHeader = []string{
	"id", "request_id", "timestamp", "branch", "rule_id", "model", "provider",
	"confidence", "alternatives", "preference_ignored", "content_type",
	"complexity", "urgency", "estimated_tokens", "file_count", "estimated_cost",
}

// Export writes records to w. Alternatives are joined with ";".
func (e *CSVExporter) Export(ctx context.Context, records []*journal.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return &journal.ExportError{Format: FormatCSV, Cause: err}
		}
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(recordToRow(record)); err != nil {
			return &journal.ExportError{Format: FormatCSV, RecordCount: i, Cause: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return &journal.ExportError{Format: FormatCSV, RecordCount: len(records), Cause: err}
	}
	return nil
}

func recordToRow(r *journal.Record) []string {
	return []string{
		r.ID,
		r.RequestID,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Branch,
		r.RuleID,
		r.Model,
		r.Provider,
		strconv.FormatFloat(r.Confidence, 'f', -1, 64),
		strings.Join(r.Alternatives, ";"),
		strconv.FormatBool(r.PreferenceIgnored),
		r.ContentType,
		r.Complexity,
		r.Urgency,
		strconv.Itoa(r.EstimatedTokens),
		strconv.Itoa(r.FileCount),
		strconv.FormatFloat(r.EstimatedCost, 'f', -1, 64),
	}
}
