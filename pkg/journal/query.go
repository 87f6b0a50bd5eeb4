package journal

import (
	"strings"

	"mercator-hq/switchyard/pkg/config"
)

// Sort orders.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

var validBranches = map[string]bool{
	"preference": true,
	"rule":       true,
	"fallback":   true,
}

// ApplyQueryDefaults fills in the limit and sort order.
func ApplyQueryDefaults(q *Query, limits config.QueryConfig) {
	if q.Limit == 0 {
		q.Limit = limits.DefaultLimit
		if q.Limit == 0 {
			q.Limit = config.DefaultJournalQueryDefaultLimit
		}
	}
	q.SortOrder = strings.ToLower(q.SortOrder)
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
}

// ValidateQuery checks a query against the configured limits.
func ValidateQuery(q *Query, limits config.QueryConfig) error {
	maxLimit := limits.MaxLimit
	if maxLimit == 0 {
		maxLimit = config.DefaultJournalQueryMaxLimit
	}

	if q.Limit < 0 {
		return &QueryError{Field: "limit", Reason: "must be >= 0"}
	}
	if q.Limit > maxLimit {
		return &QueryError{Field: "limit", Reason: "exceeds the configured maximum"}
	}
	if q.Offset < 0 {
		return &QueryError{Field: "offset", Reason: "must be >= 0"}
	}
	if q.SortOrder != "" && q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		return &QueryError{Field: "sort_order", Reason: "must be 'asc' or 'desc'"}
	}
	if q.Branch != "" && !validBranches[q.Branch] {
		return &QueryError{Field: "branch", Reason: "must be preference, rule or fallback"}
	}
	if q.StartTime != nil && q.EndTime != nil && q.StartTime.After(*q.EndTime) {
		return &QueryError{Field: "start_time", Reason: "must not be after end_time"}
	}
	return nil
}
