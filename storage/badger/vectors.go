package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB.
// One embedding record is kept per entity ID.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) (storage.VectorIndex, error) {
	return &VectorIndex{backend: backend}, nil
}

// Close releases resources. VectorIndex has no resources to release.
func (v *VectorIndex) Close() error {
	return nil
}

// PutVectors stores embedding records keyed by entity ID.
func (v *VectorIndex) PutVectors(ctx context.Context, records ...*core.EmbeddingRecord) error {
	return v.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range records {
			if record.IndexedAt.IsZero() {
				record.IndexedAt = now
			}
			key := makeEmbeddingKey(record.EntityId)
			if err := tx.Set(key, storage.MarshalEmbeddingRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar scans all stored vectors and returns the entity IDs whose
// dot product with the query vector is at least minSimilarity, highest
// first, limited to limit results. Vectors are expected to be normalized.
func (v *VectorIndex) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.VectorMatch, error) {
	var results []*core.VectorMatch

	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.EmbeddingRecord
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			}); err != nil {
				return err
			}
			if len(record.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, record.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.VectorMatch{
					EntityId: record.EntityId,
					Score:    similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountVectors reports the number of stored vectors.
func (v *VectorIndex) CountVectors(ctx context.Context) (int, error) {
	count := 0
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Clear removes all stored vectors.
func (v *VectorIndex) Clear(ctx context.Context) error {
	return v.backend.dropPrefix([]byte(embeddingPrefix + ":"))
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
