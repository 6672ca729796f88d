package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(
		ctx context.Context,
		facts domain.PropertyFacts,
		cfg generation.GenerationConfig,
	) (*domain.GeneratedContent, error)

	// Default response values
	Content *domain.GeneratedContent
	Err     error

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Facts contains all facts passed to Generate calls
		Facts []domain.PropertyFacts
	}
}

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(
	ctx context.Context,
	facts domain.PropertyFacts,
	cfg generation.GenerationConfig,
) (*domain.GeneratedContent, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Facts = append(m.GenerateCalls.Facts, facts)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, facts, cfg)
	}
	return m.Content, m.Err
}

// Count returns the number of Generate calls made so far.
func (m *MockGenerator) Count() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// NewMockGeneratorWithContent creates a MockGenerator that returns content
func NewMockGeneratorWithContent(content *domain.GeneratedContent) *MockGenerator {
	return &MockGenerator{Content: content}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// MockGeneratorWithTransportFailure simulates an unreachable completion API
func MockGeneratorWithTransportFailure() *MockGenerator {
	return &MockGenerator{Err: generation.ErrTransport}
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()

	m.GenerateCalls.Count = 0
	m.GenerateCalls.Facts = nil
}
