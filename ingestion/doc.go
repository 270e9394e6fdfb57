// Package ingestion orchestrates document processing runs.
//
// The Orchestrator picks the pipeline suited to each document's format,
// tracks the document lifecycle in storage (pollers see mid-run progress
// through persisted snapshots), and condenses every run into a Result.
// Synchronous runs block via Process/ProcessData; Submit schedules the
// run on a worker pool and returns the pending document immediately.
//
// Successful runs hand their entities to an optional EntityIndexer for
// semantic search. Indexing is best effort: a failed index never changes
// the document's completed state.
package ingestion
