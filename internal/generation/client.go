package generation

import "context"

// Chat roles understood by completion APIs.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a provider-neutral chat completion request.
type CompletionRequest struct {
	APIKey      string
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Choice is one candidate answer from the model.
type Choice struct {
	Content      string
	FinishReason string
}

// CompletionResponse carries the candidates returned by the model, in order.
type CompletionResponse struct {
	Choices []Choice
}

// CompletionClient is the transport to a chat completion API.
//
// Implementations return an error wrapping ErrMalformedResponse when the API
// answered successfully but the body could not be decoded. Any other error is
// treated as a transport failure. Implementations must honor ctx cancellation.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionClientFunc adapts a function to CompletionClient.
type CompletionClientFunc func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

// Complete calls f(ctx, req).
func (f CompletionClientFunc) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return f(ctx, req)
}
