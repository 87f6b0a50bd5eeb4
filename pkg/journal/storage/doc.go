// Package storage provides journal storage backends.
//
// MemoryStorage keeps records in process and is the default. SQLiteStorage
// persists records to a single file and supports two drivers:
//
//	journal:
//	  backend: sqlite
//	  sqlite:
//	    path: data/journal.db
//	    driver: sqlite   # pure Go; "sqlite3" uses cgo
//	    wal_mode: true
//	    busy_timeout: 5s
package storage
