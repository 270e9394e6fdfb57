// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder,
// ai.EntityRecognizer, ai.EntityExtractor, ai.RelationExtractor and
// ai.AIProvider for use in unit tests. The mocks allow tests to run
// without external AI services and enable controlled, deterministic
// behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	embeddings, err := provider.Embedder().EmbedTexts(ctx, []string{"test"})
//
//	// Custom behavior injection
//	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("embedding service unavailable")
//	}
//
//	// Check call counts
//	count := provider.GetMockEmbedder().CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: deterministic unit vectors based on text hash
//   - MockRecognizer: capitalized words become PERSON mentions
//   - MockEntityExtractor: one Generic entity per record
//   - MockRelationExtractor: no relations
package mock
