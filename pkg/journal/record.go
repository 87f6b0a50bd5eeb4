package journal

import (
	"time"

	"github.com/google/uuid"

	"mercator-hq/switchyard/pkg/routing"
)

// NewRecord summarizes a decision. The query text is not part of a
// decision's analysis, so it cannot leak into the journal.
func NewRecord(requestID string, d *routing.Decision, now time.Time) *Record {
	a := &d.Analysis
	return &Record{
		ID:                uuid.New().String(),
		RequestID:         requestID,
		Timestamp:         now.UTC(),
		Branch:            string(d.Branch),
		RuleID:            d.RuleID,
		Model:             d.Model.ID,
		Provider:          d.Model.Provider,
		Confidence:        d.Confidence,
		Alternatives:      d.AlternativeIDs(),
		PreferenceIgnored: d.PreferenceIgnored,
		ContentType:       string(a.ContentType),
		Complexity:        string(a.Complexity),
		Urgency:           string(a.Urgency),
		EstimatedTokens:   a.EstimatedTokens,
		FileCount:         a.FileCount,
		EstimatedCost:     d.EstimatedCost,
	}
}
