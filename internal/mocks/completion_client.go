package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/estate-api/internal/generation"
)

// MockCompletionClient implements generation.CompletionClient for testing.
type MockCompletionClient struct {
	// CompleteFn allows test cases to mock the Complete behavior
	CompleteFn func(ctx context.Context, req generation.CompletionRequest) (*generation.CompletionResponse, error)

	// Default response values
	Response *generation.CompletionResponse
	Err      error

	mu       sync.Mutex
	requests []generation.CompletionRequest
}

// Complete implements generation.CompletionClient.
func (m *MockCompletionClient) Complete(
	ctx context.Context,
	req generation.CompletionRequest,
) (*generation.CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, req)
	}
	return m.Response, m.Err
}

// Calls returns the number of Complete calls made so far.
func (m *MockCompletionClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received.
func (m *MockCompletionClient) Requests() []generation.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]generation.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// NewMockCompletionClientWithText returns a client whose single choice is text.
func NewMockCompletionClientWithText(text string) *MockCompletionClient {
	return &MockCompletionClient{
		Response: &generation.CompletionResponse{
			Choices: []generation.Choice{{Content: text, FinishReason: "stop"}},
		},
	}
}

// NewMockCompletionClientWithError returns a client that always fails with err.
func NewMockCompletionClientWithError(err error) *MockCompletionClient {
	return &MockCompletionClient{Err: err}
}
