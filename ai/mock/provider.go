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


package mock

import "github.com/poiesic/graphit/ai"

// MockProvider is a test double for ai.AIProvider. It aggregates the four
// mock services.
type MockProvider struct {
	embedder          *MockEmbedder
	recognizer        *MockRecognizer
	entityExtractor   *MockEntityExtractor
	relationExtractor *MockRelationExtractor
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider creates a mock provider with default mock services.
//
// Returns the concrete type so tests can reach the underlying mocks via
// the GetMockX accessors for call-count assertions and behavior injection.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:          NewMockEmbedder(),
		recognizer:        NewMockRecognizer(),
		entityExtractor:   NewMockEntityExtractor(),
		relationExtractor: NewMockRelationExtractor(),
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// EntityRecognizer returns the mock recognizer.
func (p *MockProvider) EntityRecognizer() ai.EntityRecognizer {
	return p.recognizer
}

// EntityExtractor returns the mock entity extractor.
func (p *MockProvider) EntityExtractor() ai.EntityExtractor {
	return p.entityExtractor
}

// RelationExtractor returns the mock relation extractor.
func (p *MockProvider) RelationExtractor() ai.RelationExtractor {
	return p.relationExtractor
}

// Close is a no-op for the mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockRecognizer returns the underlying mock recognizer for test assertions.
func (p *MockProvider) GetMockRecognizer() *MockRecognizer {
	return p.recognizer
}

// GetMockEntityExtractor returns the underlying mock entity extractor for
// test assertions.
func (p *MockProvider) GetMockEntityExtractor() *MockEntityExtractor {
	return p.entityExtractor
}

// GetMockRelationExtractor returns the underlying mock relation extractor
// for test assertions.
func (p *MockProvider) GetMockRelationExtractor() *MockRelationExtractor {
	return p.relationExtractor
}
