package journal

import (
	"context"
	"io"
	"time"
)

// Record is the journal entry for one routing decision. It describes what
// was decided and why, never what was asked: query text, keywords and file
// names are not recorded.
type Record struct {
	// Identity
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // From the HTTP layer or CLI

	// Timestamp is when the decision was made (UTC).
	Timestamp time.Time `json:"timestamp"`

	// Decision
	Branch            string   `json:"branch"`            // preference, rule, fallback
	RuleID            string   `json:"rule_id,omitempty"` // Set for rule decisions
	Model             string   `json:"model"`             // Selected model ID
	Provider          string   `json:"provider"`          // Selected model's provider
	Confidence        float64  `json:"confidence"`        // Decision confidence
	Alternatives      []string `json:"alternatives"`      // Alternative model IDs, cheapest first
	PreferenceIgnored bool     `json:"preference_ignored"`

	// Analysis summary
	ContentType     string `json:"content_type"`
	Complexity      string `json:"complexity"`
	Urgency         string `json:"urgency"`
	EstimatedTokens int    `json:"estimated_tokens"`
	FileCount       int    `json:"file_count"`

	// EstimatedCost is the USD estimate for the selected model.
	EstimatedCost float64 `json:"estimated_cost"`
}

// Query defines filter parameters for querying journal records.
type Query struct {
	// Time range
	StartTime *time.Time `json:"start_time,omitempty"` // Inclusive start time
	EndTime   *time.Time `json:"end_time,omitempty"`   // Inclusive end time

	// Filters
	Model     string `json:"model,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Branch    string `json:"branch,omitempty"`
	RuleID    string `json:"rule_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max records to return
	Offset int `json:"offset,omitempty"` // Skip N records

	// SortOrder orders by timestamp: "asc" or "desc" (default).
	SortOrder string `json:"sort_order,omitempty"`
}

// Summary aggregates the records matching a query.
type Summary struct {
	TotalDecisions     int64            `json:"total_decisions"`
	TotalEstimatedCost float64          `json:"total_estimated_cost"`
	ByModel            []ModelSummary   `json:"by_model"`
	ByBranch           map[string]int64 `json:"by_branch"`
	Oldest             *time.Time       `json:"oldest,omitempty"`
	Newest             *time.Time       `json:"newest,omitempty"`
}

// ModelSummary aggregates decisions for one model. Summaries are ordered by
// decision count descending, then model ID.
type ModelSummary struct {
	Model          string  `json:"model"`
	Provider       string  `json:"provider"`
	Decisions      int64   `json:"decisions"`
	EstimatedCost  float64 `json:"estimated_cost"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Storage defines the interface for journal storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the query filters, ordered by
	// timestamp. Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query filters.
	// Limit and Offset are ignored.
	Count(ctx context.Context, query *Query) (int64, error)

	// Summarize aggregates the records matching the query filters.
	// Limit and Offset are ignored.
	Summarize(ctx context.Context, query *Query) (*Summary, error)

	// Delete removes records matching the query filters and returns the
	// number removed. Limit and Offset are ignored. Used for retention.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping verifies the backend is reachable. Used by readiness checks.
	Ping(ctx context.Context) error

	// Close releases any resources held by the storage backend.
	Close() error
}

// Exporter writes journal records in some format.
type Exporter interface {
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
