package ai

import (
	"context"

	"github.com/poiesic/graphit/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Mention is a single entity occurrence found in text by named entity
// recognition. Start and End are byte offsets into the analyzed text;
// both are -1 when the occurrence could not be located.
type Mention struct {
	// Text is the surface form exactly as it appears in the input.
	Text string

	// Label is the recognizer's category tag (e.g. "PERSON", "ORG").
	// Labels are mapped to core.EntityType downstream.
	Label string

	// Start is the byte offset of the first character of the mention.
	Start int

	// End is the byte offset one past the last character of the mention.
	End int

	// Confidence is the recognizer's certainty in [0,1].
	Confidence float64
}

// EntityRecognizer finds entity mentions in free text.
// Implementations must be thread-safe for concurrent use.
type EntityRecognizer interface {
	// RecognizeEntities analyzes text and returns every entity mention
	// found, in document order. Returns an empty slice if nothing is
	// recognized. Returns an error if recognition fails.
	RecognizeEntities(ctx context.Context, text string) ([]Mention, error)
}

// EntityExtractor derives typed entities from decoded records using a
// language model. Implementations must be thread-safe for concurrent use.
type EntityExtractor interface {
	// ExtractEntities analyzes records in batches of batchSize and returns
	// the typed entities found across all of them. metadata carries
	// decoder context (filename, format) that implementations may fold
	// into their prompts. The result may contain duplicates; callers are
	// expected to deduplicate. Returns an error if extraction fails.
	ExtractEntities(ctx context.Context, records []core.Record, metadata map[string]any, batchSize int) ([]*core.Entity, error)
}

// RelationExtractor derives typed relations between known entities from
// decoded records. Implementations must be thread-safe for concurrent use.
type RelationExtractor interface {
	// ExtractRelations analyzes records in batches of batchSize and
	// returns relations whose endpoints reference entities from the
	// provided entity list by name. Implementations are prompted to stay
	// within the known entity set, but callers must still drop relations
	// that reference unknown names. Returns an error if extraction fails.
	ExtractRelations(ctx context.Context, records []core.Record, entities []*core.Entity, metadata map[string]any, batchSize int) ([]*core.Relation, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the embedding, recognition and extraction
// services, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// EntityRecognizer returns the mention recognition service.
	// The returned EntityRecognizer is safe for concurrent use.
	EntityRecognizer() EntityRecognizer

	// EntityExtractor returns the entity extraction service.
	// The returned EntityExtractor is safe for concurrent use.
	EntityExtractor() EntityExtractor

	// RelationExtractor returns the relation extraction service.
	// The returned RelationExtractor is safe for concurrent use.
	RelationExtractor() RelationExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
