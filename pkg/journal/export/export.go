// Package export writes journal records as JSON or CSV.
package export

import (
	"fmt"
	"strings"

	"mercator-hq/switchyard/pkg/journal"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// New returns the exporter for a format name.
func New(format string) (journal.Exporter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONExporter(true), nil
	case FormatCSV:
		return NewCSVExporter(true), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (valid: %s, %s)", format, FormatJSON, FormatCSV)
	}
}
