package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
	"mercator-hq/switchyard/pkg/routing"
)

// Write results reported to Metrics.
const (
	ResultStored  = "stored"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Metrics receives recorder instrumentation.
type Metrics interface {
	RecordJournalWrite(result string, duration time.Duration)
	UpdateJournalQueue(depth int)
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMetrics reports writes and queue depth to m.
func WithMetrics(m Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// WithLogger sets the recorder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// Recorder journals routing decisions. Record never blocks on storage: a
// background worker drains a bounded queue and a full queue drops the record.
type Recorder struct {
	storage    journal.Storage
	config     config.RecorderConfig
	recordChan chan *journal.Record
	wg         sync.WaitGroup
	logger     *slog.Logger
	metrics    Metrics
	now        func() time.Time

	mu     sync.RWMutex
	closed bool
}

var _ routing.DecisionRecorder = (*Recorder)(nil)

// New creates a recorder and starts its background worker.
func New(storage journal.Storage, cfg config.RecorderConfig, opts ...Option) *Recorder {
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = config.DefaultJournalRecorderAsyncBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = config.DefaultJournalRecorderWriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     cfg,
		recordChan: make(chan *journal.Record, cfg.AsyncBuffer),
		logger:     slog.Default().With("component", "journal.recorder"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Start background worker to drain channel
	r.wg.Add(1)
	go r.worker()

	r.logger.Info("journal recorder initialized",
		"async_buffer", cfg.AsyncBuffer,
		"write_timeout", cfg.WriteTimeout,
	)

	return r
}

// Record summarizes the decision and enqueues it for writing.
func (r *Recorder) Record(ctx context.Context, requestID string, d *routing.Decision) error {
	if d == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return journal.NewRecorderError(requestID, journal.ErrRecorderClosed)
	}

	record := journal.NewRecord(requestID, d, r.now())

	select {
	case r.recordChan <- record:
		r.updateQueue()
		r.logger.Debug("journal record enqueued",
			"record_id", record.ID,
			"request_id", requestID,
		)
		return nil
	default:
		r.logger.Warn("journal queue full, dropping record",
			"request_id", requestID,
			"model", record.Model,
			"channel_capacity", r.config.AsyncBuffer,
		)
		if r.metrics != nil {
			r.metrics.RecordJournalWrite(ResultDropped, 0)
		}
		return journal.NewRecorderError(requestID, journal.ErrBufferFull)
	}
}

// Close stops accepting records, writes everything already queued and
// waits for the worker to exit. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.recordChan)
	r.mu.Unlock()

	r.logger.Info("shutting down journal recorder", "pending_count", len(r.recordChan))
	r.wg.Wait()
	r.logger.Info("journal recorder shut down complete")
	return nil
}

// worker drains the queue until it is closed.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for record := range r.recordChan {
		r.writeRecord(record)
		r.updateQueue()
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *journal.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	err := r.storage.Store(ctx, record)
	duration := time.Since(start)

	if err != nil {
		r.logger.Error("failed to store journal record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		if r.metrics != nil {
			r.metrics.RecordJournalWrite(ResultFailed, duration)
		}
		return
	}

	if r.metrics != nil {
		r.metrics.RecordJournalWrite(ResultStored, duration)
	}

	r.logger.Debug("decision journaled",
		"record_id", record.ID,
		"request_id", record.RequestID,
		"branch", record.Branch,
		"model", record.Model,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow journal write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

func (r *Recorder) updateQueue() {
	if r.metrics != nil {
		r.metrics.UpdateJournalQueue(len(r.recordChan))
	}
}
