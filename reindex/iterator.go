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

	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/storage"
)

const (
	// DefaultBatchSize is the default number of entities to process in each batch
	DefaultBatchSize = 100
)

// EntityIterator iterates over all stored entities in batches.
type EntityIterator struct {
	graph     storage.GraphRepository
	batchSize int
}

// NewEntityIterator creates a new entity iterator.
// batchSize: number of entities to pass to each callback (must be > 0)
func NewEntityIterator(graph storage.GraphRepository, batchSize int) *EntityIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &EntityIterator{
		graph:     graph,
		batchSize: batchSize,
	}
}

// ForEach iterates over all entities, calling fn for each batch.
// Iteration stops on first error from fn or when all entities are processed.
// Context cancellation is checked between batches.
func (it *EntityIterator) ForEach(ctx context.Context, fn func([]*core.Entity) error) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entities, err := it.graph.GetAllEntities(ctx)
	if err != nil {
		return err
	}

	if len(entities) == 0 {
		return nil
	}

	for i := 0; i < len(entities); i += it.batchSize {
		end := min(i+it.batchSize, len(entities))

		if err := fn(entities[i:end]); err != nil {
			return err
		}

		// Check context after each batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
