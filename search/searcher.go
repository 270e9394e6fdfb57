package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/storage"
)

// similarityThreshold is the minimum cosine similarity for a semantic hit.
const similarityThreshold = 0.60

// Searcher provides hybrid semantic and name-based search over graph
// entities, and maintains the vector index the semantic half relies on.
type Searcher struct {
	vectors  storage.VectorIndex
	graph    storage.GraphRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	vectors storage.VectorIndex,
	graph storage.GraphRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		vectors:  vectors,
		graph:    graph,
		embedder: provider.Embedder(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// IndexEntities embeds an index text per entity and stores the vectors.
// The orchestrator calls this after successful runs; failures are the
// caller's to log.
func (s *Searcher) IndexEntities(ctx context.Context, entities []*core.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	texts := make([]string, len(entities))
	for i, entity := range entities {
		texts[i] = IndexText(entity)
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding index texts: %w", err)
	}
	if len(embeddings) != len(entities) {
		return fmt.Errorf("embedder returned %d vectors for %d entities", len(embeddings), len(entities))
	}

	records := make([]*core.EmbeddingRecord, len(entities))
	for i, entity := range entities {
		id := entity.Id
		if id == 0 {
			id = core.EntityID(entity.Type, entity.Name)
		}
		records[i] = &core.EmbeddingRecord{
			EntityId: id,
			Vector:   ai.NormalizeVector(embeddings[i]),
		}
	}
	return s.vectors.PutVectors(ctx, records...)
}

// IndexText renders an entity into the text that gets embedded: name,
// type, then properties in sorted key order.
func IndexText(entity *core.Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. Type: %s.", entity.Name, entity.Type)

	keys := make([]string, 0, len(entity.Properties))
	for k := range entity.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s: %s.", k, entity.Properties[k])
	}
	return b.String()
}

// FindSimilar searches for entities matching the query.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.EntityMatch, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for entities matching the query with
// monitoring. The monitor receives callbacks at each stage of the search.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.EntityMatch, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	// 1. Semantic search over the vector index.
	embeddings, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	embedding := ai.NormalizeVector(embeddings[0])
	monitor.AfterQueryEmbedding(embedding)

	matches, err := s.vectors.FindSimilar(ctx, embedding, similarityThreshold, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar entities", "err", err)
		return nil, err
	}

	semanticScores := make(map[core.ID]float32, len(matches))
	semanticIds := make([]core.ID, 0, len(matches))
	for _, match := range matches {
		semanticScores[match.EntityId] = match.Score
		semanticIds = append(semanticIds, match.EntityId)
	}
	monitor.AfterSemanticSearch(semanticIds)

	// 2. Exact case-insensitive name lookup via the graph name index.
	nameHits, err := s.graph.FindEntitiesByName(ctx, query)
	if err != nil {
		s.logger.Error("error looking up entities by name", "query", query, "err", err)
		return nil, err
	}
	nameSet := make(map[core.ID]bool, len(nameHits))
	for _, entity := range nameHits {
		nameSet[entity.Id] = true
	}
	monitor.AfterNameLookup(nameHits)

	// 3. Combine: resolve semantic-only hits to entities, then score.
	entities := make(map[core.ID]*core.Entity, len(nameHits)+len(semanticIds))
	for _, entity := range nameHits {
		entities[entity.Id] = entity
	}
	missing := make([]core.ID, 0, len(semanticIds))
	for _, id := range semanticIds {
		if _, ok := entities[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		resolved, err := s.graph.GetEntities(ctx, missing...)
		if err != nil {
			s.logger.Error("error retrieving entities", "count", len(missing), "err", err)
			return nil, err
		}
		for _, entity := range resolved {
			entities[entity.Id] = entity
		}
	}

	if len(entities) == 0 {
		results := []*core.EntityMatch{}
		monitor.Finish(results)
		return results, nil
	}

	loweredQuery := strings.ToLower(query)
	results := make([]*core.EntityMatch, 0, len(entities))
	for id, entity := range entities {
		similarity, inSemantic := semanticScores[id]
		inName := nameSet[id]

		var score float32
		switch {
		case inSemantic && inName:
			score = 1.5 * similarity
			monitor.SemanticAndNameHit(entity)
		case inName:
			score = 1.2
			monitor.NameHit(entity)
		default:
			score = similarity
			monitor.SemanticHit(entity)
		}

		if nameSimilarity := normalizedLevenshtein(loweredQuery, strings.ToLower(entity.Name)); nameSimilarity >= 0.5 {
			score += 0.3 * float32(nameSimilarity)
		}

		results = append(results, &core.EntityMatch{Entity: entity, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)
	return results, nil
}

// normalizedLevenshtein maps edit distance into a [0,1] similarity.
func normalizedLevenshtein(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1 - float64(dist)/float64(maxLen)
}
