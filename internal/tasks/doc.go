// Package tasks streams paginated catalog resources to files with real-time progress reporting.
//
// # Core Operations
//
//  1. [Exporter.Export] : stream one resource through a lazy pager into a [formatter.Writer]
//     - Pages are fetched only as the writer consumes items
//     - An optional item limit stops fetching early
//
//  2. [Exporter.BulkExport] : export many resources concurrently
//     - A worker pool bounded by [BulkExportOpts.NumWorkers]
//     - A token-bucket limiter gates job dispatch
//     - Partial failures are recorded, not fatal
//     - A manifest summarizing every job is written next to the output files
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Run History
//
// The optional [RunRecorder] interface persists one [models.ExportRun] per job
// (repositories.ExportRunRepository). Recording failures are logged and do not fail the job.
package tasks
