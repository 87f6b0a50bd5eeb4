package retention

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
)

// Metrics receives pruning results.
type Metrics interface {
	RecordJournalPrune(deleted int64)
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithMetrics reports deleted record counts to m.
func WithMetrics(m Metrics) Option {
	return func(p *Pruner) {
		p.metrics = m
	}
}

// WithClock overrides the current time used for the age cutoff.
func WithClock(now func() time.Time) Option {
	return func(p *Pruner) {
		p.now = now
	}
}

// Pruner enforces retention policies on journal records.
type Pruner struct {
	storage   journal.Storage
	config    config.RetentionConfig
	logger    *slog.Logger
	metrics   Metrics
	now       func() time.Time
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage journal.Storage, cfg config.RetentionConfig, opts ...Option) *Pruner {
	p := &Pruner{
		storage: storage,
		config:  cfg,
		logger:  slog.Default().With("component", "journal.retention"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes records older than the retention period, then the oldest
// records beyond the record cap. Either phase is skipped when its limit is 0.
// Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	// Phase 1: Prune by retention period
	if p.config.Days > 0 {
		deleted, err := p.pruneByAge(ctx)
		totalDeleted += deleted
		if err != nil {
			p.report(totalDeleted)
			return totalDeleted, &journal.RetentionError{Phase: "age", Cause: err}
		}
		p.logger.Debug("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.Days,
		)
	}

	// Phase 2: Prune by max record count
	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		totalDeleted += deleted
		if err != nil {
			p.report(totalDeleted)
			return totalDeleted, &journal.RetentionError{Phase: "count", Cause: err}
		}
		p.logger.Debug("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	p.report(totalDeleted)

	if totalDeleted > 0 {
		p.logger.Info("journal pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

func (p *Pruner) report(deleted int64) {
	if p.metrics != nil && deleted > 0 {
		p.metrics.RecordJournalPrune(deleted)
	}
}

// pruneByAge deletes records older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.Days)
	return p.storage.Delete(ctx, &journal.Query{EndTime: &cutoff})
}

// pruneByCount deletes the oldest records beyond MaxRecords. Records sharing
// the cutoff timestamp are deleted together.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, nil)
	if err != nil {
		return 0, err
	}
	if count <= p.config.MaxRecords {
		return 0, nil
	}

	// Newest record that falls outside the cap.
	records, err := p.storage.Query(ctx, &journal.Query{
		SortOrder: journal.SortDesc,
		Offset:    int(p.config.MaxRecords),
		Limit:     1,
	})
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	cutoff := records[0].Timestamp
	p.logger.Info("record count exceeds limit, pruning oldest",
		"current_count", count,
		"max_records", p.config.MaxRecords,
		"cutoff_time", cutoff,
	)
	return p.storage.Delete(ctx, &journal.Query{EndTime: &cutoff})
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning, or nil when
// the scheduler is not running.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
