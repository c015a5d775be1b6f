package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/dirsearch/query"
)

// MockQueryUnderstander is a test double for ai.QueryUnderstander.
type MockQueryUnderstander struct {
	// UnderstandFunc is called by Understand if set.
	// If nil, Understand returns nil hints.
	UnderstandFunc func(ctx context.Context, text string) (*query.Hints, error)

	callCount atomic.Int64
}

// NewMockQueryUnderstander creates a mock understander that returns no hints.
func NewMockQueryUnderstander() *MockQueryUnderstander {
	return &MockQueryUnderstander{}
}

func (m *MockQueryUnderstander) Understand(ctx context.Context, text string) (*query.Hints, error) {
	m.callCount.Add(1)

	if m.UnderstandFunc != nil {
		return m.UnderstandFunc(ctx, text)
	}
	return nil, nil
}

// CallCount returns the number of times Understand was called.
func (m *MockQueryUnderstander) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockQueryUnderstander) Reset() {
	m.callCount.Store(0)
	m.UnderstandFunc = nil
}
