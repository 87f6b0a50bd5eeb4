// Package journal records a privacy-preserving summary of every routing
// decision.
//
// # Overview
//
// The router itself never persists anything. When the journal is enabled,
// the routing service hands each decision to a Recorder, which turns it into
// a Record (model, branch, rule, cost, confidence and analysis tiers) and
// writes it asynchronously so routing latency is unaffected. Query text,
// keywords and file names are never stored.
//
// # Packages
//
//   - storage: "memory" and "sqlite" backends. SQLite runs on either
//     github.com/mattn/go-sqlite3 (driver "sqlite3", cgo) or
//     modernc.org/sqlite (driver "sqlite", pure Go).
//   - recorder: Buffered asynchronous writer implementing
//     routing.DecisionRecorder.
//   - retention: Age and record-count pruning on a cron schedule.
//   - export: JSON and CSV output for the CLI.
//
// # Usage
//
//	store, err := storage.Open(cfg.Journal)
//	rec := recorder.New(store, cfg.Journal.Recorder, recorder.WithMetrics(collector))
//	defer rec.Close()
//
//	svc := routing.NewService(manager, routing.WithJournal(rec))
package journal
