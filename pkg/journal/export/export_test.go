package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"mercator-hq/switchyard/pkg/journal"
)

func testRecords() []*journal.Record {
	ts := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	return []*journal.Record{
		{
			ID: "a", RequestID: "req-a", Timestamp: ts, Branch: "rule", RuleID: "code-generation",
			Model: "gpt-4-turbo", Provider: "openai", Confidence: 0.9,
			Alternatives: []string{"claude-3-haiku", "gpt-3.5-turbo"},
			ContentType:  "code", Complexity: "medium", Urgency: "low",
			EstimatedTokens: 12, EstimatedCost: 0.00036,
		},
		{
			ID: "b", RequestID: "req-b", Timestamp: ts.Add(time.Second), Branch: "fallback",
			Model: "gpt-3.5-turbo", Provider: "openai", Confidence: 0.7,
			Alternatives: []string{}, PreferenceIgnored: true,
		},
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(context.Background(), testRecords(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	var got []journal.Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[0].RuleID != "code-generation" || !got[1].PreferenceIgnored {
		t.Errorf("decoded = %+v", got)
	}
}

func TestJSONExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(true).Export(context.Background(), nil, &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Export(nil) = %q, want []", buf.String())
	}
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter(true).Export(context.Background(), testRecords(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "id" || len(rows[0]) != len(rows[1]) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "2026-04-02T08:30:00Z" {
		t.Errorf("timestamp = %q", rows[1][2])
	}
	if rows[1][8] != "claude-3-haiku;gpt-3.5-turbo" {
		t.Errorf("alternatives = %q", rows[1][8])
	}
	if rows[2][9] != "true" {
		t.Errorf("preference_ignored = %q", rows[2][9])
	}
}

func TestCSVExporter_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter(false).Export(context.Background(), testRecords()[:1], &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if strings.HasPrefix(buf.String(), "id,") {
		t.Error("header written when disabled")
	}
}

func TestExport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, e := range []journal.Exporter{NewJSONExporter(false), NewCSVExporter(false)} {
		if err := e.Export(ctx, testRecords(), &bytes.Buffer{}); err != context.Canceled {
			t.Errorf("%T.Export() = %v, want context.Canceled", e, err)
		}
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "JSON", "csv"} {
		if _, err := New(format); err != nil {
			t.Errorf("New(%q) failed: %v", format, err)
		}
	}
	if _, err := New("xml"); err == nil {
		t.Error("New(xml) should fail")
	}
}
