package storage

import (
	"context"
	"sort"
	"sync"

	"mercator-hq/switchyard/pkg/journal"
)

// MemoryStorage implements journal.Storage in process memory. Records are
// lost on restart; use it for development and tests.
type MemoryStorage struct {
	records []*journal.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists a copy of the record.
func (s *MemoryStorage) Store(ctx context.Context, record *journal.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, copyRecord(record))
	return nil
}

// Query retrieves records matching the query filters, ordered by timestamp.
// Records with equal timestamps keep insertion order.
func (s *MemoryStorage) Query(ctx context.Context, query *journal.Query) ([]*journal.Record, error) {
	matched := s.filter(query)

	desc := query == nil || query.SortOrder != journal.SortAsc
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})

	if query == nil {
		return matched, nil
	}

	// Apply pagination
	start := query.Offset
	if start > len(matched) {
		return []*journal.Record{}, nil
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}
	return matched[start:end], nil
}

// Count returns the number of records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *journal.Query) (int64, error) {
	return int64(len(s.filter(query))), nil
}

// Summarize aggregates the records matching the query filters.
func (s *MemoryStorage) Summarize(ctx context.Context, query *journal.Query) (*journal.Summary, error) {
	return journal.Summarize(s.filter(query)), nil
}

// Delete removes records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *journal.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if query.Matches(r) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	// Clear the tail so dropped records can be collected.
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = kept
	return deleted, nil
}

// Ping always succeeds.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Close releases the stored records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

func (s *MemoryStorage) filter(query *journal.Query) []*journal.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*journal.Record{}
	for _, r := range s.records {
		if query.Matches(r) {
			matched = append(matched, copyRecord(r))
		}
	}
	return matched
}

func copyRecord(r *journal.Record) *journal.Record {
	c := *r
	c.Alternatives = make([]string, len(r.Alternatives))
	copy(c.Alternatives, r.Alternatives)
	return &c
}
