// Package reindex rebuilds the entity vector index from the graph store,
// typically after switching embedding models.
//
// Entities are streamed in batches, rendered to index text, embedded with
// retry and exponential backoff, normalized, and written back to the vector
// index. Progress is reported to a configurable writer.
package reindex
