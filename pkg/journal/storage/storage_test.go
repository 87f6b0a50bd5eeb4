package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testRecord(i int, model, branch string) *journal.Record {
	return &journal.Record{
		ID:              fmt.Sprintf("rec-%03d", i),
		RequestID:       fmt.Sprintf("req-%03d", i),
		Timestamp:       base.Add(time.Duration(i) * time.Minute),
		Branch:          branch,
		Model:           model,
		Provider:        "openai",
		Confidence:      0.8,
		Alternatives:    []string{"claude-3-haiku", "gpt-3.5-turbo"},
		ContentType:     "code",
		Complexity:      "medium",
		Urgency:         "low",
		EstimatedTokens: 40,
		EstimatedCost:   0.01,
	}
}

func newSQLite(t *testing.T, driver string) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(config.SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "journal.db"),
		Driver:       driver,
		MaxOpenConns: 1,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage(%s) failed: %v", driver, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends runs fn against every storage implementation.
func backends(t *testing.T, fn func(t *testing.T, s journal.Storage)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStorage())
	})
	t.Run("sqlite3", func(t *testing.T) {
		fn(t, newSQLite(t, DriverCGO))
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newSQLite(t, DriverPureGo))
	})
}

func seed(t *testing.T, s journal.Storage) {
	t.Helper()

	ctx := context.Background()
	records := []*journal.Record{
		testRecord(0, "gpt-4", "rule"),
		testRecord(1, "gpt-4", "rule"),
		testRecord(2, "claude-3-haiku", "preference"),
		testRecord(3, "gpt-3.5-turbo", "fallback"),
		testRecord(4, "gpt-4", "rule"),
	}
	records[0].RuleID = "code-generation"
	records[1].RuleID = "code-generation"
	records[4].RuleID = "complex-analysis"
	records[2].Provider = "anthropic"
	records[3].Alternatives = []string{}

	for _, r := range records {
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}
}

func ids(records []*journal.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStorage_RoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, s journal.Storage) {
		ctx := context.Background()
		want := testRecord(7, "gpt-4", "rule")
		want.RuleID = "code-generation"
		want.PreferenceIgnored = true
		want.FileCount = 2
		want.Timestamp = want.Timestamp.Add(123456789 * time.Nanosecond)

		if err := s.Store(ctx, want); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}

		got, err := s.Query(ctx, &journal.Query{RequestID: want.RequestID})
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Query() returned %d records, want 1", len(got))
		}
		r := got[0]
		if r.ID != want.ID || r.Model != want.Model || r.RuleID != want.RuleID {
			t.Errorf("round trip mismatch: got %+v", r)
		}
		if !r.Timestamp.Equal(want.Timestamp) {
			t.Errorf("Timestamp = %v, want %v", r.Timestamp, want.Timestamp)
		}
		if !r.PreferenceIgnored || r.FileCount != 2 || r.EstimatedTokens != 40 {
			t.Errorf("flags/counts not preserved: %+v", r)
		}
		if !equalIDs(r.Alternatives, want.Alternatives) {
			t.Errorf("Alternatives = %v, want %v", r.Alternatives, want.Alternatives)
		}
	})
}

func TestStorage_QueryFiltersAndOrder(t *testing.T) {
	backends(t, func(t *testing.T, s journal.Storage) {
		seed(t, s)
		ctx := context.Background()

		start := base.Add(1 * time.Minute)
		end := base.Add(3 * time.Minute)

		tests := []struct {
			name  string
			query *journal.Query
			want  []string
		}{
			{"all newest first", &journal.Query{}, []string{"rec-004", "rec-003", "rec-002", "rec-001", "rec-000"}},
			{"ascending", &journal.Query{SortOrder: journal.SortAsc}, []string{"rec-000", "rec-001", "rec-002", "rec-003", "rec-004"}},
			{"model", &journal.Query{Model: "gpt-4"}, []string{"rec-004", "rec-001", "rec-000"}},
			{"provider", &journal.Query{Provider: "anthropic"}, []string{"rec-002"}},
			{"branch", &journal.Query{Branch: "fallback"}, []string{"rec-003"}},
			{"rule", &journal.Query{RuleID: "code-generation"}, []string{"rec-001", "rec-000"}},
			{"time range inclusive", &journal.Query{StartTime: &start, EndTime: &end}, []string{"rec-003", "rec-002", "rec-001"}},
			{"limit", &journal.Query{Limit: 2}, []string{"rec-004", "rec-003"}},
			{"offset", &journal.Query{Limit: 2, Offset: 3}, []string{"rec-001", "rec-000"}},
			{"offset past end", &journal.Query{Offset: 10}, []string{}},
			{"no match", &journal.Query{Model: "nope"}, []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.Query(ctx, tt.query)
				if err != nil {
					t.Fatalf("Query() failed: %v", err)
				}
				if got == nil {
					t.Fatal("Query() returned nil slice")
				}
				if !equalIDs(ids(got), tt.want) {
					t.Errorf("Query() = %v, want %v", ids(got), tt.want)
				}
			})
		}
	})
}

func TestStorage_EmptyAlternativesStayEmpty(t *testing.T) {
	backends(t, func(t *testing.T, s journal.Storage) {
		seed(t, s)
		got, err := s.Query(context.Background(), &journal.Query{RequestID: "req-003"})
		if err != nil || len(got) != 1 {
			t.Fatalf("Query() = %v, %v", got, err)
		}
		if got[0].Alternatives == nil || len(got[0].Alternatives) != 0 {
			t.Errorf("Alternatives = %#v, want empty non-nil", got[0].Alternatives)
		}
	})
}

func TestStorage_Count(t *testing.T) {
	backends(t, func(t *testing.T, s journal.Storage) {
		seed(t, s)
		ctx := context.Background()

		n, err := s.Count(ctx, nil)
		if err != nil || n != 5 {
			t.Errorf("Count(nil) = %d, %v; want 5", n, err)
		}
		n, err = s.Count(ctx, &journal.Query{Model: "gpt-4", Limit: 1})
		if err != nil || n != 3 {
			t.Errorf("Count(model) = %d, %v; want 3 (limit ignored)", n, err)
		}
	})
}

func TestStorage_Summarize(t *testing.T) {
	backends(t, func(t *testing.T, s journal.Storage) {
		seed(t, s)

		sum, err := s.Summarize(context.Background(), &journal.Query{})
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if sum.TotalDecisions != 5 {
			t.Errorf("TotalDecisions = %d, want 5", sum.TotalDecisions)
		}
		if sum.TotalEstimatedCost < 0.0499 || sum.TotalEstimatedCost > 0.0501 {
			t.Errorf("TotalEstimatedCost = %v, want 0.05", sum.TotalEstimatedCost)
		}
		if sum.ByBranch["rule"] != 3 || sum.ByBranch["preference"] != 1 || sum.ByBranch["fallback"] != 1 {
			t.Errorf("ByBranch = %v", sum.ByBranch)
		}
		if len(sum.ByModel) != 3 {
			t.Fatalf("ByModel has %d entries, want 3", len(sum.ByModel))
		}
		wantOrder := []string{"gpt-4", "claude-3-haiku", "gpt-3.5-turbo"}
		for i, ms := range sum.ByModel {
			if ms.Model != wantOrder[i] {
				t.Errorf("ByModel[%d] = %s, want %s", i, ms.Model, wantOrder[i])
			}
		}
		if m := sum.ByModel[0]; m.Decisions != 3 || m.MeanConfidence < 0.7999 || m.MeanConfidence > 0.8001 {
			t.Errorf("gpt-4 summary = %+v", sum.ByModel[0])
		}
		if sum.Oldest == nil || !sum.Oldest.Equal(base) {
			t.Errorf("Oldest = %v, want %v", sum.Oldest, base)
		}
		if sum.Newest == nil || !sum.Newest.Equal(base.Add(4*time.Minute)) {
			t.Errorf("Newest = %v", sum.Newest)
		}
	})
}

func TestStorage_SummarizeEmpty(t *testing.T) {
	backends(t, func(t *testing.T, s journal.Storage) {
		sum, err := s.Summarize(context.Background(), nil)
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if sum.TotalDecisions != 0 || sum.Oldest != nil || len(sum.ByModel) != 0 {
			t.Errorf("empty summary = %+v", sum)
		}
	})
}

func TestStorage_Delete(t *testing.T) {
	backends(t, func(t *testing.T, s journal.Storage) {
		seed(t, s)
		ctx := context.Background()

		cutoff := base.Add(1 * time.Minute)
		n, err := s.Delete(ctx, &journal.Query{EndTime: &cutoff})
		if err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
		if n != 2 {
			t.Errorf("Delete() removed %d, want 2", n)
		}

		remaining, _ := s.Count(ctx, nil)
		if remaining != 3 {
			t.Errorf("remaining = %d, want 3", remaining)
		}
		if err := s.Ping(ctx); err != nil {
			t.Errorf("Ping() failed: %v", err)
		}
	})
}

func TestNewSQLiteStorage_Errors(t *testing.T) {
	_, err := NewSQLiteStorage(config.SQLiteConfig{})
	var se *journal.StorageError
	if !errors.As(err, &se) {
		t.Errorf("empty path: got %v, want StorageError", err)
	}

	_, err = NewSQLiteStorage(config.SQLiteConfig{
		Path:   filepath.Join(t.TempDir(), "x.db"),
		Driver: "postgres",
	})
	if err == nil {
		t.Error("unknown driver: expected error")
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	cfg := config.SQLiteConfig{Path: path, Driver: DriverPureGo, BusyTimeout: time.Second}

	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	if err := s.Store(context.Background(), testRecord(1, "gpt-4", "rule")); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	n, err := s.Count(context.Background(), nil)
	if err != nil || n != 1 {
		t.Errorf("Count() after reopen = %d, %v; want 1", n, err)
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{DriverCGO, "file:j.db?_busy_timeout=2000&_journal_mode=WAL"},
		{DriverPureGo, "file:j.db?_pragma=busy_timeout%282000%29&_pragma=journal_mode%28WAL%29"},
	}
	for _, tt := range tests {
		got, err := buildDSN(config.SQLiteConfig{Path: "j.db", Driver: tt.driver, WALMode: true, BusyTimeout: 2 * time.Second})
		if err != nil {
			t.Fatalf("buildDSN(%s) failed: %v", tt.driver, err)
		}
		if got != tt.want {
			t.Errorf("buildDSN(%s) = %q, want %q", tt.driver, got, tt.want)
		}
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(config.JournalConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	s, err = Open(config.JournalConfig{Backend: "sqlite", SQLite: config.SQLiteConfig{
		Path:   filepath.Join(t.TempDir(), "j.db"),
		Driver: DriverPureGo,
	}})
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	s.Close()

	_, err = Open(config.JournalConfig{Backend: "redis"})
	if !errors.Is(err, journal.ErrUnknownBackend) {
		t.Errorf("Open(redis) error = %v, want ErrUnknownBackend", err)
	}
}
