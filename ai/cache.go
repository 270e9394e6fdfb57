package ai

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultEmbedCacheSize is the number of text -> vector entries retained by
// NewCachingEmbedder when no explicit size is chosen by the caller.
const DefaultEmbedCacheSize = 4096

// CachingEmbedder wraps an Embedder with an in-memory LRU cache keyed by the
// exact input text. Repeated embeddings of identical chunks (common when the
// same document is re-ingested or when records share boilerplate) skip the
// network round trip.
//
// Vectors are copied on insert and on lookup; callers own their slices.
type CachingEmbedder struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

// NewCachingEmbedder wraps inner with an LRU cache holding up to size entries.
// Returns an error if size is not positive.
func NewCachingEmbedder(inner Embedder, size int) (*CachingEmbedder, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachingEmbedder{inner: inner, cache: cache}, nil
}

var _ Embedder = (*CachingEmbedder)(nil)

// EmbedText returns the cached vector for text, calling the wrapped embedder
// only on a cache miss.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return copyVector(vec), nil
	}
	vec, err := c.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, copyVector(vec))
	return vec, nil
}

// EmbedTexts embeds a batch, forwarding only the cache misses to the wrapped
// embedder in a single call and preserving the input order in the result.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var missTexts []string
	var missIndexes []int
	for i, text := range texts {
		if vec, ok := c.cache.Get(text); ok {
			results[i] = copyVector(vec)
			continue
		}
		missTexts = append(missTexts, text)
		missIndexes = append(missIndexes, i)
	}
	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := c.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(missTexts))
	}
	for j, vec := range vectors {
		c.cache.Add(missTexts[j], copyVector(vec))
		results[missIndexes[j]] = vec
	}
	return results, nil
}

// Len reports the number of cached entries.
func (c *CachingEmbedder) Len() int {
	return c.cache.Len()
}

// Purge drops all cached entries.
func (c *CachingEmbedder) Purge() {
	c.cache.Purge()
}

func copyVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
