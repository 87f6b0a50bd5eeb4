package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
)

// SQLite driver names.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// SQLiteStorage implements journal.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) a SQLite journal database and
// initializes its schema. WAL mode and the busy timeout are applied through
// the DSN so every pooled connection gets them.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverCGO
	}
	if cfg.Path == "" {
		return nil, journal.NewStorageError("sqlite", "open", errors.New("database path is required"))
	}

	logger := slog.Default().With("component", "journal.storage.sqlite")

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, journal.NewStorageError("sqlite", "mkdir", err)
		}
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "open", err)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "open", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite journal initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"wal_mode", cfg.WALMode,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

// buildDSN encodes pragmas in each driver's DSN dialect.
func buildDSN(cfg config.SQLiteConfig) (string, error) {
	busyMs := cfg.BusyTimeout.Milliseconds()
	params := url.Values{}

	switch cfg.Driver {
	case DriverCGO:
		params.Set("_busy_timeout", fmt.Sprint(busyMs))
		if cfg.WALMode {
			params.Set("_journal_mode", "WAL")
		}
	case DriverPureGo:
		params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyMs))
		if cfg.WALMode {
			params.Add("_pragma", "journal_mode(WAL)")
		}
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q (valid: %s, %s)", cfg.Driver, DriverCGO, DriverPureGo)
	}

	return "file:" + cfg.Path + "?" + params.Encode(), nil
}

// initialize creates the schema and verifies its version.
func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return journal.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return journal.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return journal.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return journal.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *journal.Record) error {
	alternatives, err := json.Marshal(record.Alternatives)
	if err != nil {
		return journal.NewStorageError("sqlite", "store", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.RequestID, record.Timestamp.UnixNano(),
		record.Branch, record.RuleID, record.Model, record.Provider,
		record.Confidence, string(alternatives), record.PreferenceIgnored,
		record.ContentType, record.Complexity, record.Urgency,
		record.EstimatedTokens, record.FileCount, record.EstimatedCost,
	)
	if err != nil {
		return journal.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query retrieves records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *journal.Query) ([]*journal.Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT " + selectColumns + " FROM decisions" + whereClause

	// rowid breaks timestamp ties in insertion order.
	order := "DESC"
	if query != nil && query.SortOrder == journal.SortAsc {
		order = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY timestamp_ns %s, rowid %s", order, order)

	if query != nil && (query.Limit > 0 || query.Offset > 0) {
		limit := query.Limit
		if limit <= 0 {
			limit = -1 // SQLite: no limit
		}
		sqlQuery += " LIMIT ? OFFSET ?"
		args = append(args, limit, query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*journal.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, journal.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, journal.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *journal.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions"+whereClause, args...).Scan(&count)
	if err != nil {
		return 0, journal.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Summarize aggregates the records matching the query filters in SQL.
func (s *SQLiteStorage) Summarize(ctx context.Context, query *journal.Query) (*journal.Summary, error) {
	whereClause, args := buildWhereClause(query)

	summary := &journal.Summary{
		ByModel:  []journal.ModelSummary{},
		ByBranch: make(map[string]int64),
	}

	var oldest, newest sql.NullInt64
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), SUM(estimated_cost), MIN(timestamp_ns), MAX(timestamp_ns) FROM decisions"+whereClause,
		args...,
	).Scan(&summary.TotalDecisions, &total, &oldest, &newest)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "summarize", err)
	}
	summary.TotalEstimatedCost = total.Float64
	if oldest.Valid {
		t := time.Unix(0, oldest.Int64).UTC()
		summary.Oldest = &t
	}
	if newest.Valid {
		t := time.Unix(0, newest.Int64).UTC()
		summary.Newest = &t
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT model, MAX(provider), COUNT(*), SUM(estimated_cost), AVG(confidence) FROM decisions"+
			whereClause+" GROUP BY model",
		args...,
	)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "summarize", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ms journal.ModelSummary
		if err := rows.Scan(&ms.Model, &ms.Provider, &ms.Decisions, &ms.EstimatedCost, &ms.MeanConfidence); err != nil {
			return nil, journal.NewStorageError("sqlite", "summarize", err)
		}
		summary.ByModel = append(summary.ByModel, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, journal.NewStorageError("sqlite", "summarize", err)
	}
	journal.SortModelSummaries(summary.ByModel)

	branchRows, err := s.db.QueryContext(ctx,
		"SELECT branch, COUNT(*) FROM decisions"+whereClause+" GROUP BY branch", args...)
	if err != nil {
		return nil, journal.NewStorageError("sqlite", "summarize", err)
	}
	defer branchRows.Close()
	for branchRows.Next() {
		var branch string
		var n int64
		if err := branchRows.Scan(&branch, &n); err != nil {
			return nil, journal.NewStorageError("sqlite", "summarize", err)
		}
		summary.ByBranch[branch] = n
	}
	if err := branchRows.Err(); err != nil {
		return nil, journal.NewStorageError("sqlite", "summarize", err)
	}

	return summary, nil
}

// Delete removes records matching the query filters.
func (s *SQLiteStorage) Delete(ctx context.Context, query *journal.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	result, err := s.db.ExecContext(ctx, "DELETE FROM decisions"+whereClause, args...)
	if err != nil {
		return 0, journal.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, journal.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return journal.NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return journal.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite journal closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause (with leading " WHERE ") from
// query filters, and the matching arguments.
func buildWhereClause(query *journal.Query) (string, []interface{}) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	// Time range filter
	if query.StartTime != nil {
		conditions = append(conditions, "timestamp_ns >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "timestamp_ns <= ?")
		args = append(args, query.EndTime.UnixNano())
	}

	for _, f := range []struct {
		column, value string
	}{
		{"model", query.Model},
		{"provider", query.Provider},
		{"branch", query.Branch},
		{"rule_id", query.RuleID},
		{"request_id", query.RequestID},
	} {
		if f.value != "" {
			conditions = append(conditions, f.column+" = ?")
			args = append(args, f.value)
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// scanRow scans a database row into a Record.
func scanRow(rows *sql.Rows) (*journal.Record, error) {
	var record journal.Record
	var timestampNs int64
	var alternatives string

	err := rows.Scan(
		&record.ID, &record.RequestID, &timestampNs,
		&record.Branch, &record.RuleID, &record.Model, &record.Provider,
		&record.Confidence, &alternatives, &record.PreferenceIgnored,
		&record.ContentType, &record.Complexity, &record.Urgency,
		&record.EstimatedTokens, &record.FileCount, &record.EstimatedCost,
	)
	if err != nil {
		return nil, err
	}

	record.Timestamp = time.Unix(0, timestampNs).UTC()
	record.Alternatives = []string{}
	if alternatives != "" {
		if err := json.Unmarshal([]byte(alternatives), &record.Alternatives); err != nil {
			return nil, fmt.Errorf("decode alternatives: %w", err)
		}
	}

	return &record, nil
}
