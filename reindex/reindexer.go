// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of entities to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of entities)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer rebuilds the vector index for every entity in the graph.
type Reindexer struct {
	graph     storage.GraphRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *EntityIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(graph storage.GraphRepository, vectors storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewEntityIterator(graph, config.BatchSize)

	return &Reindexer{
		graph:     graph,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the reindexing operation.
// Every entity in the graph is re-embedded with the configured embedder and
// its vector rewritten. Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	allEntities, err := r.graph.GetAllEntities(ctx)
	if err != nil {
		return fmt.Errorf("failed to query entities: %w", err)
	}

	totalEntities := len(allEntities)
	if totalEntities == 0 {
		fmt.Fprintf(r.progress, "No entities found in graph (0 entities)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d entities (batch size: %d)\n",
		totalEntities, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalEntities, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, func(entities []*core.Entity) error {
		if err := r.processor.Process(ctx, entities); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(entities)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d entities in %v (%.1f entities/sec)\n",
		totalEntities, elapsed.Round(time.Second), float64(totalEntities)/elapsed.Seconds())

	return nil
}
