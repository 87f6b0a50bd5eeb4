package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the journal schema.
// Timestamps are stored as Unix nanoseconds so ordering and range filters
// behave the same under both SQLite drivers.
const Schema = `
-- Decision records table
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,
    timestamp_ns INTEGER NOT NULL,

    -- Decision
    branch TEXT NOT NULL,
    rule_id TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL,
    provider TEXT NOT NULL,
    confidence REAL NOT NULL,
    alternatives TEXT NOT NULL DEFAULT '[]',
    preference_ignored INTEGER NOT NULL DEFAULT 0,

    -- Analysis summary
    content_type TEXT NOT NULL,
    complexity TEXT NOT NULL,
    urgency TEXT NOT NULL,
    estimated_tokens INTEGER NOT NULL,
    file_count INTEGER NOT NULL,

    estimated_cost REAL NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp_ns);
CREATE INDEX IF NOT EXISTS idx_decisions_model ON decisions(model);
CREATE INDEX IF NOT EXISTS idx_decisions_branch ON decisions(branch);
CREATE INDEX IF NOT EXISTS idx_decisions_request_id ON decisions(request_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const selectColumns = `id, request_id, timestamp_ns, branch, rule_id, model, provider,
	confidence, alternatives, preference_ignored, content_type, complexity, urgency,
	estimated_tokens, file_count, estimated_cost`
