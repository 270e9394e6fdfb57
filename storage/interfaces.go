package storage

import (
	"context"

	"github.com/poiesic/graphit/core"
)

// DocumentRepository persists document lifecycle records.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// PutDocument stores a document snapshot, overwriting any previous
	// snapshot with the same Id. The pipeline persists a snapshot after
	// every status or progress change so pollers see fresh state.
	PutDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a document by its ULID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// ListDocuments retrieves up to limit documents, newest first.
	// Document IDs are ULIDs, so key order is upload order.
	// A limit <= 0 means no limit.
	ListDocuments(ctx context.Context, limit int) ([]*core.Document, error)

	// DeleteDocument removes a document by its ULID.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id string) error

	// Close closes the repository and releases resources.
	Close() error
}

// GraphRepository persists the entity/relation graph.
// Implementations must be thread-safe and support concurrent access.
type GraphRepository interface {
	// UpsertEntities stores entities keyed by the content ID of their
	// (type, lowercase name) identity. An upsert for an existing key
	// overwrites matching properties, adds unseen ones, replaces
	// confidence and source, and preserves InsertedAt; it never
	// duplicates a node. Returns the stored IDs in input order.
	UpsertEntities(ctx context.Context, entities ...*core.Entity) ([]core.ID, error)

	// UpsertRelations stores relations keyed by the content ID of their
	// (type, from, to) identity, with the same merge semantics as
	// UpsertEntities. Returns the stored IDs in input order.
	UpsertRelations(ctx context.Context, relations ...*core.Relation) ([]core.ID, error)

	// GetEntity retrieves a single entity by ID.
	// Returns ErrNotFound if the entity doesn't exist.
	GetEntity(ctx context.Context, id core.ID) (*core.Entity, error)

	// GetEntities retrieves multiple entities by their IDs.
	// Returns only the entities that exist (no error for missing ones).
	GetEntities(ctx context.Context, ids ...core.ID) ([]*core.Entity, error)

	// FindEntitiesByName retrieves entities whose name matches
	// case-insensitively, across all entity types.
	FindEntitiesByName(ctx context.Context, name string) ([]*core.Entity, error)

	// GetAllEntities retrieves every stored entity. Used by reindexing.
	GetAllEntities(ctx context.Context) ([]*core.Entity, error)

	// GetEntityRelations retrieves the relations whose from-endpoint
	// matches name case-insensitively, via the adjacency index.
	GetEntityRelations(ctx context.Context, name string) ([]*core.Relation, error)

	// Stats reports node/relationship totals and per-label breakdowns.
	Stats(ctx context.Context) (*core.GraphStats, error)

	// Visualize extracts up to limit relations with their endpoint
	// entities for rendering. When the graph has no relations it falls
	// back to bare nodes. A limit <= 0 means no limit.
	Visualize(ctx context.Context, limit int) (*core.GraphData, error)

	// Clear removes all entities and relations.
	Clear(ctx context.Context) error

	// Close closes the repository and releases resources.
	Close() error
}

// VectorIndex persists entity embedding vectors for similarity search.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// PutVectors stores embedding records keyed by entity ID,
	// overwriting any previous vector for the same entity.
	PutVectors(ctx context.Context, records ...*core.EmbeddingRecord) error

	// FindSimilar finds entities whose vectors are similar to the query
	// vector. Vectors are expected to be unit-normalized; similarity is
	// the dot product. Returns matches with similarity >= minSimilarity,
	// up to limit results, highest first.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.VectorMatch, error)

	// CountVectors reports the number of stored vectors.
	CountVectors(ctx context.Context) (int, error)

	// Clear removes all stored vectors.
	Clear(ctx context.Context) error

	// Close closes the index and releases resources.
	Close() error
}
