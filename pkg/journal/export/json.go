package export

import (
	"context"
	"encoding/json"
	"io"

	"mercator-hq/switchyard/pkg/journal"
)

// JSONExporter exports records as a JSON array.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes records to w. An empty slice is written as [].
func (e *JSONExporter) Export(ctx context.Context, records []*journal.Record, w io.Writer) error {
	if records == nil {
		records = []*journal.Record{}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return &journal.ExportError{Format: FormatJSON, Cause: err}
	}
	return nil
}
