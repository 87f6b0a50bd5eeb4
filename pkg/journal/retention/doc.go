// Package retention deletes old journal records.
//
// Two limits apply, in order: records older than Days are deleted, then the
// oldest records beyond MaxRecords. Pruning runs on demand through
// Pruner.Prune or on a cron schedule through Pruner.Start.
package retention
