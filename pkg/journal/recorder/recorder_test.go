package recorder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
	"mercator-hq/switchyard/pkg/journal/storage"
	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/routing"
)

func routeQuery(t *testing.T, query, preference string) *routing.Decision {
	t.Helper()

	registry, err := models.NewRegistry(models.DefaultModels())
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	router, err := routing.NewRouter(registry, routing.DefaultRules(), routing.DefaultOptions())
	if err != nil {
		t.Fatalf("NewRouter() failed: %v", err)
	}
	d := router.Route(query, preference, nil)
	return &d
}

type fakeMetrics struct {
	mu      sync.Mutex
	results map[string]int
	depths  []int
}

func (m *fakeMetrics) RecordJournalWrite(result string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

func (m *fakeMetrics) UpdateJournalQueue(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depths = append(m.depths, depth)
}

func (m *fakeMetrics) count(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[result]
}

// blockingStorage blocks Store until release is closed.
type blockingStorage struct {
	*storage.MemoryStorage
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingStorage) Store(ctx context.Context, r *journal.Record) error {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.MemoryStorage.Store(ctx, r)
}

type failingStorage struct {
	*storage.MemoryStorage
}

func (failingStorage) Store(context.Context, *journal.Record) error {
	return errors.New("disk full")
}

func TestRecorder_RecordAndClose(t *testing.T) {
	store := storage.NewMemoryStorage()
	metrics := &fakeMetrics{}
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	rec := New(store, config.RecorderConfig{AsyncBuffer: 10}, WithMetrics(metrics), WithClock(func() time.Time { return fixed }))

	ctx := context.Background()
	d := routeQuery(t, "Write a Python function to parse my secret API token", "")
	if err := rec.Record(ctx, "req-1", d); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if err := rec.Record(ctx, "req-2", routeQuery(t, "hello", "claude-3-haiku")); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	// Close drains the queue.
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	records, err := store.Query(ctx, &journal.Query{SortOrder: journal.SortAsc})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("stored %d records, want 2", len(records))
	}

	r := records[0]
	if r.RequestID != "req-1" || r.Model != d.Model.ID || r.Branch != string(d.Branch) {
		t.Errorf("record = %+v, decision model=%s branch=%s", r, d.Model.ID, d.Branch)
	}
	if !r.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", r.Timestamp, fixed)
	}
	if r.ID == "" {
		t.Error("record ID is empty")
	}
	if records[1].Branch != string(routing.BranchPreference) {
		t.Errorf("second record branch = %s, want preference", records[1].Branch)
	}
	if metrics.count(ResultStored) != 2 {
		t.Errorf("stored metric = %d, want 2", metrics.count(ResultStored))
	}
}

func TestRecorder_NeverStoresQueryText(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := New(store, config.RecorderConfig{})

	secret := "zebrafish"
	_ = rec.Record(context.Background(), "req-1", routeQuery(t, "Explain the "+secret+" genome", ""))
	rec.Close()

	records, _ := store.Query(context.Background(), nil)
	if len(records) != 1 {
		t.Fatalf("stored %d records, want 1", len(records))
	}

	var sb strings.Builder
	r := records[0]
	for _, f := range []string{r.ID, r.RequestID, r.Branch, r.RuleID, r.Model, r.Provider,
		r.ContentType, r.Complexity, r.Urgency, strings.Join(r.Alternatives, ",")} {
		sb.WriteString(f)
	}
	if strings.Contains(sb.String(), secret) {
		t.Errorf("record leaks query text: %+v", r)
	}
}

func TestRecorder_BufferFullDrops(t *testing.T) {
	store := &blockingStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	metrics := &fakeMetrics{}
	rec := New(store, config.RecorderConfig{AsyncBuffer: 1}, WithMetrics(metrics))

	ctx := context.Background()
	d := routeQuery(t, "hello", "")

	// First record is taken by the worker, which blocks in Store.
	if err := rec.Record(ctx, "req-1", d); err != nil {
		t.Fatalf("Record(1) failed: %v", err)
	}
	<-store.entered

	// Second fills the queue.
	if err := rec.Record(ctx, "req-2", d); err != nil {
		t.Fatalf("Record(2) failed: %v", err)
	}

	// Third is dropped without blocking.
	err := rec.Record(ctx, "req-3", d)
	if !errors.Is(err, journal.ErrBufferFull) {
		t.Fatalf("Record(3) error = %v, want ErrBufferFull", err)
	}
	var re *journal.RecorderError
	if !errors.As(err, &re) || re.RequestID != "req-3" {
		t.Errorf("error = %#v, want RecorderError for req-3", err)
	}
	if metrics.count(ResultDropped) != 1 {
		t.Errorf("dropped metric = %d, want 1", metrics.count(ResultDropped))
	}

	close(store.release)
	rec.Close()

	n, _ := store.Count(ctx, nil)
	if n != 2 {
		t.Errorf("stored %d records, want 2", n)
	}
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	rec := New(storage.NewMemoryStorage(), config.RecorderConfig{})
	rec.Close()

	err := rec.Record(context.Background(), "req-1", routeQuery(t, "hello", ""))
	if !errors.Is(err, journal.ErrRecorderClosed) {
		t.Errorf("Record() after Close error = %v, want ErrRecorderClosed", err)
	}

	// Second Close is a no-op.
	if err := rec.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestRecorder_StoreFailureCounted(t *testing.T) {
	metrics := &fakeMetrics{}
	rec := New(failingStorage{storage.NewMemoryStorage()}, config.RecorderConfig{}, WithMetrics(metrics))

	if err := rec.Record(context.Background(), "req-1", routeQuery(t, "hello", "")); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	rec.Close()

	if metrics.count(ResultFailed) != 1 {
		t.Errorf("failed metric = %d, want 1", metrics.count(ResultFailed))
	}
}

func TestRecorder_NilDecision(t *testing.T) {
	rec := New(storage.NewMemoryStorage(), config.RecorderConfig{})
	defer rec.Close()

	if err := rec.Record(context.Background(), "req-1", nil); err != nil {
		t.Errorf("Record(nil) = %v, want nil", err)
	}
}

func TestRecorder_ConcurrentRecord(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := New(store, config.RecorderConfig{AsyncBuffer: 1000})
	d := routeQuery(t, "Debug this Go code", "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = rec.Record(context.Background(), "req", d)
			}
		}()
	}
	wg.Wait()
	rec.Close()

	n, _ := store.Count(context.Background(), nil)
	if n != 200 {
		t.Errorf("stored %d records, want 200", n)
	}
}
