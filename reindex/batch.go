package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/search"
	"github.com/poiesic/graphit/storage"
)

// BatchProcessor handles embedding generation for batches of entities.
type BatchProcessor struct {
	vectors        storage.VectorIndex
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorIndex, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of entities and writes them to
// the vector index. Vectors are normalized after embedding so dot-product
// similarity behaves as cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, entities []*core.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	// Render the same index text the searcher embeds at ingestion time
	texts := make([]string, len(entities))
	for i, entity := range entities {
		texts[i] = search.IndexText(entity)
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(entities) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entities), len(embeddings))
	}

	now := time.Now()
	records := make([]*core.EmbeddingRecord, len(entities))
	for i, entity := range entities {
		records[i] = &core.EmbeddingRecord{
			EntityId:  entity.Id,
			Vector:    ai.NormalizeVector(embeddings[i]),
			IndexedAt: now,
		}
	}

	if err := bp.vectors.PutVectors(ctx, records...); err != nil {
		return fmt.Errorf("failed to store vectors: %w", err)
	}

	return nil
}
