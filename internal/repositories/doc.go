// Package repositories implements SQLite persistence for export history.
//
// Key Implementations:
//   - [ExportRunRepository] : one row per bulk export job, with its item count, output file and error
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
