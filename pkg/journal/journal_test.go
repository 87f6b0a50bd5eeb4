package journal

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/routing"
)

func TestNewRecord(t *testing.T) {
	d := &routing.Decision{
		Model:         models.ModelDescriptor{ID: "claude-3-opus", Provider: "anthropic"},
		Confidence:    0.85,
		Branch:        routing.BranchRule,
		RuleID:        "complex-analysis",
		EstimatedCost: 0.12,
		Alternatives:  []models.ModelDescriptor{{ID: "gpt-4o"}},
		Analysis: content.QueryAnalysis{
			EstimatedTokens: 400,
			Keywords:        []string{"private", "merger"},
			ContentType:     content.ContentTypeAnalysis,
			Complexity:      content.ComplexityComplex,
			Urgency:         content.UrgencyLow,
			FileCount:       1,
		},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	r := NewRecord("req-9", d, now)

	if r.ID == "" || r.ID == NewRecord("req-9", d, now).ID {
		t.Error("record IDs must be unique")
	}
	if r.Timestamp.Location() != time.UTC || !r.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v in UTC", r.Timestamp, now)
	}
	if r.Model != "claude-3-opus" || r.Provider != "anthropic" || r.RuleID != "complex-analysis" {
		t.Errorf("decision fields = %+v", r)
	}
	if r.ContentType != "analysis" || r.Complexity != "complex" || r.EstimatedTokens != 400 || r.FileCount != 1 {
		t.Errorf("analysis fields = %+v", r)
	}
	if len(r.Alternatives) != 1 || r.Alternatives[0] != "gpt-4o" {
		t.Errorf("Alternatives = %v", r.Alternatives)
	}
}

func TestValidateQuery(t *testing.T) {
	limits := config.QueryConfig{DefaultLimit: 50, MaxLimit: 500}
	early := time.Now()
	late := early.Add(time.Hour)

	tests := []struct {
		name    string
		query   Query
		wantErr string
	}{
		{"valid", Query{Limit: 10, Branch: "rule"}, ""},
		{"negative limit", Query{Limit: -1}, "limit"},
		{"limit over max", Query{Limit: 501}, "limit"},
		{"negative offset", Query{Offset: -5}, "offset"},
		{"bad sort", Query{SortOrder: "sideways"}, "sort_order"},
		{"bad branch", Query{Branch: "magic"}, "branch"},
		{"inverted range", Query{StartTime: &late, EndTime: &early}, "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(&tt.query, limits)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateQuery() = %v, want nil", err)
				}
				return
			}
			var qe *QueryError
			if !errors.As(err, &qe) || qe.Field != tt.wantErr {
				t.Errorf("ValidateQuery() = %v, want QueryError on %s", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidQuery) {
				t.Error("QueryError should match ErrInvalidQuery")
			}
		})
	}
}

func TestApplyQueryDefaults(t *testing.T) {
	q := Query{SortOrder: "ASC"}
	ApplyQueryDefaults(&q, config.QueryConfig{DefaultLimit: 25})
	if q.Limit != 25 || q.SortOrder != SortAsc {
		t.Errorf("got limit=%d sort=%q", q.Limit, q.SortOrder)
	}

	q = Query{}
	ApplyQueryDefaults(&q, config.QueryConfig{})
	if q.Limit != config.DefaultJournalQueryDefaultLimit || q.SortOrder != SortDesc {
		t.Errorf("got limit=%d sort=%q", q.Limit, q.SortOrder)
	}
}

func TestQuery_Matches(t *testing.T) {
	ts := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	r := &Record{Timestamp: ts, Model: "gpt-4o", Branch: "rule", RuleID: "vision-tasks"}

	var nilQuery *Query
	if !nilQuery.Matches(r) {
		t.Error("nil query should match everything")
	}
	if !(&Query{StartTime: &ts, EndTime: &ts}).Matches(r) {
		t.Error("time bounds are inclusive")
	}
	if (&Query{Model: "gpt-4o", RuleID: "other"}).Matches(r) {
		t.Error("filters combine with AND")
	}
}

func TestSummarize(t *testing.T) {
	ts := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	records := []*Record{
		{Timestamp: ts, Model: "b", Branch: "rule", Confidence: 1, EstimatedCost: 1},
		{Timestamp: ts.Add(time.Hour), Model: "a", Branch: "fallback", Confidence: 0.5, EstimatedCost: 2},
		{Timestamp: ts.Add(-time.Hour), Model: "b", Branch: "rule", Confidence: 0.5, EstimatedCost: 3},
	}

	s := Summarize(records)
	if s.TotalDecisions != 3 || s.TotalEstimatedCost != 6 {
		t.Errorf("totals = %d, %v", s.TotalDecisions, s.TotalEstimatedCost)
	}
	if s.ByModel[0].Model != "b" || s.ByModel[0].MeanConfidence != 0.75 {
		t.Errorf("ByModel[0] = %+v", s.ByModel[0])
	}
	if !s.Oldest.Equal(ts.Add(-time.Hour)) || !s.Newest.Equal(ts.Add(time.Hour)) {
		t.Errorf("range = %v..%v", s.Oldest, s.Newest)
	}
	if s.ByBranch["rule"] != 2 {
		t.Errorf("ByBranch = %v", s.ByBranch)
	}
}
