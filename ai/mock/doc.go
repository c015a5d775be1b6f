// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.QueryUnderstander,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockUnderstander := mock.NewMockQueryUnderstander()
//	mockUnderstander.UnderstandFunc = func(ctx context.Context, text string) (*query.Hints, error) {
//	    return &query.Hints{Geo: []string{"Leeds"}}, nil
//	}
//
//	// Check call counts
//	count := mockUnderstander.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockQueryUnderstander: Returns nil hints, deferring to local analysis
//   - MockProvider: Aggregates mock embedder and understander
package mock
