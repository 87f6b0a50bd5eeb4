package journal

import "sort"

// Matches reports whether a record satisfies the query filters. Limit,
// Offset and SortOrder are not filters.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.StartTime != nil && r.Timestamp.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.Timestamp.After(*q.EndTime) {
		return false
	}
	if q.Model != "" && r.Model != q.Model {
		return false
	}
	if q.Provider != "" && r.Provider != q.Provider {
		return false
	}
	if q.Branch != "" && r.Branch != q.Branch {
		return false
	}
	if q.RuleID != "" && r.RuleID != q.RuleID {
		return false
	}
	if q.RequestID != "" && r.RequestID != q.RequestID {
		return false
	}
	return true
}

// Summarize aggregates records in memory.
func Summarize(records []*Record) *Summary {
	s := &Summary{
		ByModel:  []ModelSummary{},
		ByBranch: make(map[string]int64),
	}
	byModel := make(map[string]*ModelSummary)
	confidence := make(map[string]float64)

	for _, r := range records {
		s.TotalDecisions++
		s.TotalEstimatedCost += r.EstimatedCost
		s.ByBranch[r.Branch]++

		ms, ok := byModel[r.Model]
		if !ok {
			ms = &ModelSummary{Model: r.Model, Provider: r.Provider}
			byModel[r.Model] = ms
		}
		ms.Decisions++
		ms.EstimatedCost += r.EstimatedCost
		confidence[r.Model] += r.Confidence

		ts := r.Timestamp
		if s.Oldest == nil || ts.Before(*s.Oldest) {
			s.Oldest = &ts
		}
		if s.Newest == nil || ts.After(*s.Newest) {
			s.Newest = &ts
		}
	}

	for id, ms := range byModel {
		ms.MeanConfidence = confidence[id] / float64(ms.Decisions)
		s.ByModel = append(s.ByModel, *ms)
	}
	SortModelSummaries(s.ByModel)
	return s
}

// SortModelSummaries orders summaries by decision count descending, then
// model ID.
func SortModelSummaries(ms []ModelSummary) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Decisions != ms[j].Decisions {
			return ms[i].Decisions > ms[j].Decisions
		}
		return ms[i].Model < ms[j].Model
	})
}
