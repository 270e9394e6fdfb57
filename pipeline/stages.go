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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/storage"
)

// parsingStage decodes the staged source into records.
type parsingStage struct {
	registry *decode.Registry
}

var _ Stage = (*parsingStage)(nil)

func (s *parsingStage) Name() string  { return "parsing" }
func (s *parsingStage) Enabled() bool { return true }

func (s *parsingStage) Execute(_ context.Context, pc *Context) (map[string]any, error) {
	decoder, err := s.registry.Decoder(pc.Format)
	if err != nil {
		return nil, err
	}
	if pc.Source == nil {
		return nil, fmt.Errorf("no source staged for %q", pc.Filename)
	}

	r, err := pc.Source()
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer r.Close()

	records, metadata, err := decoder.Decode(r, decode.FileMeta{
		Filename: pc.Filename,
		Size:     pc.Size,
		Format:   pc.Format,
	})
	if err != nil {
		return nil, err
	}

	pc.RawRecords = records
	for k, v := range metadata {
		pc.Metadata[k] = v
	}

	return map[string]any{
		"records": len(records),
		"format":  string(pc.Format),
	}, nil
}

// chunkingStage windows free-text records and renders structured records
// into one chunk each.
type chunkingStage struct {
	chunkSize    int
	chunkOverlap int
}

var _ Stage = (*chunkingStage)(nil)

func (s *chunkingStage) Name() string  { return "chunking" }
func (s *chunkingStage) Enabled() bool { return true }

func (s *chunkingStage) Execute(_ context.Context, pc *Context) (map[string]any, error) {
	if len(pc.RawRecords) == 0 {
		return nil, SkipStage("no records to chunk")
	}

	var chunks []Chunk
	for i, record := range pc.RawRecords {
		if content, ok := freeTextContent(record); ok {
			for j, window := range windowText(content, s.chunkSize, s.chunkOverlap) {
				chunks = append(chunks, Chunk{
					Id:      fmt.Sprintf("%s-%d-%d", pc.Filename, i, j),
					Content: window,
					Type:    "text",
				})
			}
			continue
		}
		chunks = append(chunks, Chunk{
			Id:      fmt.Sprintf("%s-%d", pc.Filename, i),
			Content: renderRecord(record),
			Type:    "record",
		})
	}

	pc.Chunks = chunks
	return map[string]any{"chunks": len(chunks)}, nil
}

// freeTextContent reports whether the record is a single free-text body.
func freeTextContent(record core.Record) (string, bool) {
	if len(record) != 1 {
		return "", false
	}
	content, ok := record["content"]
	if !ok {
		return "", false
	}
	s, ok := content.(string)
	return s, ok
}

// windowText splits text into rune windows of size with overlap runes
// shared between consecutive windows.
func windowText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if size <= 0 || len(runes) <= size {
		return []string{text}
	}
	step := size - overlap
	if step < 1 {
		step = 1
	}
	var windows []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return windows
}

// renderRecord flattens a structured record into sorted "key: value" lines.
func renderRecord(record core.Record) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, record[k])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// embeddingStage embeds chunk contents. Collaborator failure halts the
// pipeline.
type embeddingStage struct {
	embedder ai.Embedder
}

var _ Stage = (*embeddingStage)(nil)

func (s *embeddingStage) Name() string  { return "embedding" }
func (s *embeddingStage) Enabled() bool { return true }

func (s *embeddingStage) Execute(ctx context.Context, pc *Context) (map[string]any, error) {
	if len(pc.Chunks) == 0 {
		return nil, SkipStage("no chunks to embed")
	}

	texts := make([]string, len(pc.Chunks))
	for i, chunk := range pc.Chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	pc.Embeddings = embeddings
	dimensions := 0
	if len(embeddings) > 0 {
		dimensions = len(embeddings[0])
	}
	return map[string]any{
		"embeddings": len(embeddings),
		"dimensions": dimensions,
	}, nil
}

// nerStage recognizes entity mentions in chunk (or record) text and maps
// them onto the closed entity type set.
type nerStage struct {
	recognizer ai.EntityRecognizer
}

var _ Stage = (*nerStage)(nil)

func (s *nerStage) Name() string  { return "ner" }
func (s *nerStage) Enabled() bool { return true }

func (s *nerStage) Execute(ctx context.Context, pc *Context) (map[string]any, error) {
	texts := make([]string, 0, len(pc.Chunks))
	for _, chunk := range pc.Chunks {
		texts = append(texts, chunk.Content)
	}
	if len(texts) == 0 {
		// Chunking was disabled or produced nothing; fall back to records.
		for _, record := range pc.RawRecords {
			if content, ok := freeTextContent(record); ok {
				texts = append(texts, content)
			} else {
				texts = append(texts, renderRecord(record))
			}
		}
	}
	if len(texts) == 0 {
		return nil, SkipStage("no text to recognize")
	}

	type mentionKey struct {
		text  string
		label string
	}
	seen := make(map[mentionKey]bool)
	found := 0

	for _, text := range texts {
		mentions, err := s.recognizer.RecognizeEntities(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("recognizing entities: %w", err)
		}
		for _, mention := range mentions {
			key := mentionKey{strings.ToLower(mention.Text), mention.Label}
			if seen[key] {
				continue
			}
			seen[key] = true
			found++
			pc.Entities = append(pc.Entities, &core.Entity{
				Type:       ai.EntityTypeForLabel(mention.Label),
				Name:       mention.Text,
				Source:     "ner",
				Confidence: mention.Confidence,
			})
		}
	}

	return map[string]any{"mentions": found}, nil
}

// extractionStage derives entities and relations from records, reconciles
// them with NER output, and drops relations with unresolvable endpoints.
type extractionStage struct {
	entities  ai.EntityExtractor
	relations ai.RelationExtractor
	batchSize int
	logger    *slog.Logger
}

var _ Stage = (*extractionStage)(nil)

func (s *extractionStage) Name() string  { return "extraction" }
func (s *extractionStage) Enabled() bool { return true }

func (s *extractionStage) Execute(ctx context.Context, pc *Context) (map[string]any, error) {
	if len(pc.RawRecords) == 0 {
		return nil, SkipStage("no records to extract from")
	}

	extracted, err := s.entities.ExtractEntities(ctx, pc.RawRecords, pc.Metadata, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("extracting entities: %w", err)
	}
	pc.Entities = core.DedupEntities(append(pc.Entities, extracted...))

	candidates, err := s.relations.ExtractRelations(ctx, pc.RawRecords, pc.Entities, pc.Metadata, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("extracting relations: %w", err)
	}

	known := make(map[string]bool, len(pc.Entities))
	for _, entity := range pc.Entities {
		known[strings.ToLower(entity.Name)] = true
	}

	resolved := make([]*core.Relation, 0, len(candidates))
	for _, relation := range candidates {
		if !known[strings.ToLower(relation.FromEntity)] || !known[strings.ToLower(relation.ToEntity)] {
			s.logger.Warn("dropping relation with unknown endpoint",
				"type", relation.Type, "from", relation.FromEntity, "to", relation.ToEntity)
			continue
		}
		resolved = append(resolved, relation)
	}
	pc.Relations = core.DedupRelations(append(pc.Relations, resolved...))

	return map[string]any{
		"entities":  len(pc.Entities),
		"relations": len(pc.Relations),
		"dropped":   len(candidates) - len(resolved),
	}, nil
}

// NoOpStage is an explicit pass-through placeholder for stages that have
// no business rules. It keeps the stage sequence honest without inventing
// behavior.
type NoOpStage struct {
	StageName string
}

var _ Stage = (*NoOpStage)(nil)

func (s *NoOpStage) Name() string  { return s.StageName }
func (s *NoOpStage) Enabled() bool { return true }

func (s *NoOpStage) Execute(context.Context, *Context) (map[string]any, error) {
	return map[string]any{"noop": true}, nil
}

// validationStage records a structural validation report. Entities and
// relations already passed boundary validation during extraction, so the
// report carries no issues; under Strict a non-empty issue list fails.
type validationStage struct {
	strict bool
}

var _ Stage = (*validationStage)(nil)

func (s *validationStage) Name() string  { return "validation" }
func (s *validationStage) Enabled() bool { return true }

func (s *validationStage) Execute(_ context.Context, pc *Context) (map[string]any, error) {
	report := &ValidationReport{Valid: true, Strict: s.strict}
	pc.ValidationReport = report

	if s.strict && len(report.Issues) > 0 {
		report.Valid = false
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(report.Issues, "; "))
	}

	return map[string]any{
		"valid":  report.Valid,
		"issues": len(report.Issues),
		"strict": report.Strict,
	}, nil
}

// storageStage upserts the final entities and relations in batches.
// Partially stored batches are not rolled back on a later batch failure.
type storageStage struct {
	graph     storage.GraphRepository
	batchSize int
}

var _ Stage = (*storageStage)(nil)

func (s *storageStage) Name() string  { return "storage" }
func (s *storageStage) Enabled() bool { return true }

func (s *storageStage) Execute(ctx context.Context, pc *Context) (map[string]any, error) {
	entities := pc.FinalEntities()
	relations := pc.FinalRelations()
	if len(entities) == 0 && len(relations) == 0 {
		return nil, SkipStage("nothing to store")
	}

	// The factory normalizes batch size; guard direct construction.
	if s.batchSize < 1 {
		s.batchSize = defaultBatchSize
	}

	for start := 0; start < len(entities); start += s.batchSize {
		end := min(start+s.batchSize, len(entities))
		ids, err := s.graph.UpsertEntities(ctx, entities[start:end]...)
		if err != nil {
			return nil, fmt.Errorf("storing entities: %w", err)
		}
		pc.StoredEntityIds = append(pc.StoredEntityIds, ids...)
	}

	for start := 0; start < len(relations); start += s.batchSize {
		end := min(start+s.batchSize, len(relations))
		ids, err := s.graph.UpsertRelations(ctx, relations[start:end]...)
		if err != nil {
			return nil, fmt.Errorf("storing relations: %w", err)
		}
		pc.StoredRelationIds = append(pc.StoredRelationIds, ids...)
	}

	output := map[string]any{
		"entities_stored":  len(pc.StoredEntityIds),
		"relations_stored": len(pc.StoredRelationIds),
	}
	if stats, err := s.graph.Stats(ctx); err == nil {
		pc.StorageStats = map[string]any{
			"total_nodes":         stats.TotalNodes,
			"total_relationships": stats.TotalRelationships,
		}
		for k, v := range pc.StorageStats {
			output[k] = v
		}
	}
	return output, nil
}
