package routing

import (
	"sync"
	"sync/atomic"
	"time"
)

// RoutingStats is a point-in-time snapshot of routing counters.
type RoutingStats struct {
	TotalDecisions     int64            `json:"total_decisions"`
	DecisionsPerModel  map[string]int64 `json:"decisions_per_model"`
	DecisionsPerBranch map[string]int64 `json:"decisions_per_branch"`
	RuleMatches        map[string]int64 `json:"rule_matches"`
	IgnoredPreferences int64            `json:"ignored_preferences"`
	JournalErrors      int64            `json:"journal_errors"`
	TotalEstimatedCost float64          `json:"total_estimated_cost"`
	LastResetTime      time.Time        `json:"last_reset_time"`
}

// AtomicRoutingStats implements thread-safe routing statistics using atomic operations.
// All counters are updated atomically for lock-free performance.
type AtomicRoutingStats struct {
	// totalDecisions is the total number of routing decisions made
	totalDecisions atomic.Int64

	// decisionsPerModel tracks decisions per selected model
	decisionsPerModel sync.Map // map[string]*atomic.Int64

	// decisionsPerBranch tracks decisions per selection branch
	decisionsPerBranch sync.Map // map[string]*atomic.Int64

	// ruleMatches tracks how often each rule won
	ruleMatches sync.Map // map[string]*atomic.Int64

	// ignoredPreferences counts unknown preferences that fell through to matching
	ignoredPreferences atomic.Int64

	// journalErrors counts decisions the journal failed to accept
	journalErrors atomic.Int64

	// costMicros accumulates estimated cost in millionths of a dollar
	costMicros atomic.Int64

	// lastResetTime is when statistics were last reset
	lastResetTime time.Time

	// mu protects lastResetTime
	mu sync.RWMutex
}

// NewAtomicRoutingStats creates a new atomic routing statistics tracker.
func NewAtomicRoutingStats() *AtomicRoutingStats {
	return &AtomicRoutingStats{
		lastResetTime: time.Now(),
	}
}

// Record counts a decision.
func (s *AtomicRoutingStats) Record(d *Decision) {
	s.totalDecisions.Add(1)
	increment(&s.decisionsPerModel, d.Model.ID)
	increment(&s.decisionsPerBranch, string(d.Branch))
	if d.RuleID != "" {
		increment(&s.ruleMatches, d.RuleID)
	}
	if d.PreferenceIgnored {
		s.ignoredPreferences.Add(1)
	}
	s.costMicros.Add(int64(d.EstimatedCost*1e6 + 0.5))
}

// IncrementJournalErrors increments the journal error counter.
func (s *AtomicRoutingStats) IncrementJournalErrors() {
	s.journalErrors.Add(1)
}

func increment(m *sync.Map, key string) {
	val, _ := m.LoadOrStore(key, &atomic.Int64{})
	val.(*atomic.Int64).Add(1)
}

func collect(m *sync.Map) map[string]int64 {
	out := make(map[string]int64)
	m.Range(func(key, value any) bool {
		out[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})
	return out
}

// Snapshot returns a point-in-time snapshot of the statistics.
// The returned RoutingStats struct is safe to read without locks.
func (s *AtomicRoutingStats) Snapshot() *RoutingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &RoutingStats{
		TotalDecisions:     s.totalDecisions.Load(),
		DecisionsPerModel:  collect(&s.decisionsPerModel),
		DecisionsPerBranch: collect(&s.decisionsPerBranch),
		RuleMatches:        collect(&s.ruleMatches),
		IgnoredPreferences: s.ignoredPreferences.Load(),
		JournalErrors:      s.journalErrors.Load(),
		TotalEstimatedCost: float64(s.costMicros.Load()) / 1e6,
		LastResetTime:      s.lastResetTime,
	}
}

// Reset resets all statistics to zero.
func (s *AtomicRoutingStats) Reset() {
	s.totalDecisions.Store(0)
	s.ignoredPreferences.Store(0)
	s.journalErrors.Store(0)
	s.costMicros.Store(0)

	for _, m := range []*sync.Map{&s.decisionsPerModel, &s.decisionsPerBranch, &s.ruleMatches} {
		m.Range(func(key, _ any) bool {
			m.Delete(key)
			return true
		})
	}

	s.mu.Lock()
	s.lastResetTime = time.Now()
	s.mu.Unlock()
}
