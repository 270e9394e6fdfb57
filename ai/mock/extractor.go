package mock

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
)

// MockRecognizer is a test double for ai.EntityRecognizer. Behavior can
// be injected via the function field.
type MockRecognizer struct {
	// RecognizeEntitiesFunc is called by RecognizeEntities if set. If
	// nil, capitalized words are reported as PERSON mentions.
	RecognizeEntitiesFunc func(ctx context.Context, text string) ([]ai.Mention, error)

	callCount int
}

// NewMockRecognizer creates a mock recognizer with default behavior.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

// RecognizeEntities finds mock mentions in text. Default behavior treats
// each capitalized word as a PERSON mention with confidence 0.8.
func (m *MockRecognizer) RecognizeEntities(ctx context.Context, text string) ([]ai.Mention, error) {
	m.callCount++

	if m.RecognizeEntitiesFunc != nil {
		return m.RecognizeEntitiesFunc(ctx, text)
	}

	var mentions []ai.Mention
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}
		first := []rune(word)[0]
		if !unicode.IsUpper(first) {
			continue
		}
		mentions = append(mentions, ai.Mention{
			Text:       word,
			Label:      "PERSON",
			Start:      -1,
			End:        -1,
			Confidence: 0.8,
		})
	}
	return mentions, nil
}

// CallCount returns the number of times RecognizeEntities was called.
func (m *MockRecognizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockRecognizer) Reset() {
	m.callCount = 0
	m.RecognizeEntitiesFunc = nil
}

// MockEntityExtractor is a test double for ai.EntityExtractor.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set. If nil,
	// one Generic entity is produced per record from its "name" field
	// (or a positional placeholder).
	ExtractEntitiesFunc func(ctx context.Context, records []core.Record, metadata map[string]any, batchSize int) ([]*core.Entity, error)

	callCount int
}

// NewMockEntityExtractor creates a mock entity extractor with default behavior.
func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

// ExtractEntities derives mock entities from records.
func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, records []core.Record, metadata map[string]any, batchSize int) ([]*core.Entity, error) {
	m.callCount++

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, records, metadata, batchSize)
	}

	entities := make([]*core.Entity, 0, len(records))
	for i, record := range records {
		name := fmt.Sprintf("entity-%d", i)
		if v, ok := record["name"].(string); ok && v != "" {
			name = v
		}
		entities = append(entities, &core.Entity{
			Type:       core.EntityGeneric,
			Name:       name,
			Source:     "mock",
			Confidence: 0.9,
		})
	}
	return entities, nil
}

// CallCount returns the number of times ExtractEntities was called.
func (m *MockEntityExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEntityExtractor) Reset() {
	m.callCount = 0
	m.ExtractEntitiesFunc = nil
}

// MockRelationExtractor is a test double for ai.RelationExtractor.
type MockRelationExtractor struct {
	// ExtractRelationsFunc is called by ExtractRelations if set. If nil,
	// no relations are produced.
	ExtractRelationsFunc func(ctx context.Context, records []core.Record, entities []*core.Entity, metadata map[string]any, batchSize int) ([]*core.Relation, error)

	callCount int
}

// NewMockRelationExtractor creates a mock relation extractor with default behavior.
func NewMockRelationExtractor() *MockRelationExtractor {
	return &MockRelationExtractor{}
}

// ExtractRelations derives mock relations from records and entities.
func (m *MockRelationExtractor) ExtractRelations(ctx context.Context, records []core.Record, entities []*core.Entity, metadata map[string]any, batchSize int) ([]*core.Relation, error) {
	m.callCount++

	if m.ExtractRelationsFunc != nil {
		return m.ExtractRelationsFunc(ctx, records, entities, metadata, batchSize)
	}
	return []*core.Relation{}, nil
}

// CallCount returns the number of times ExtractRelations was called.
func (m *MockRelationExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockRelationExtractor) Reset() {
	m.callCount = 0
	m.ExtractRelationsFunc = nil
}
