package storage

import (
	"fmt"
	"strings"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
)

// Open creates the storage backend selected by the journal configuration.
func Open(cfg config.JournalConfig) (journal.Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		return NewSQLiteStorage(cfg.SQLite)
	default:
		return nil, fmt.Errorf("%w: %q", journal.ErrUnknownBackend, cfg.Backend)
	}
}
