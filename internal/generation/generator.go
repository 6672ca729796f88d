package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/estate-api/internal/domain"
)

// DefaultTimeout bounds a completion request when GenerationConfig.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// GenerationConfig is the per-call configuration of a generation. It is built
// by the caller from its own configuration source.
type GenerationConfig struct {
	APIKey          string
	Model           string
	MaxOutputTokens int
	Temperature     float64
	Timeout         time.Duration
}

// Generator produces marketing content for a property.
// This interface is the boundary between the service layer and the LLM integration.
type Generator interface {
	// Generate returns normalized content, or an error matching one of
	// ErrConfiguration, ErrTransport, ErrMalformedResponse or ErrInvalidFacts.
	Generate(ctx context.Context, facts domain.PropertyFacts, cfg GenerationConfig) (*domain.GeneratedContent, error)
}

// ContentGenerator implements Generator on top of a CompletionClient.
// It holds no mutable state and is safe for concurrent use.
type ContentGenerator struct {
	client CompletionClient
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a ContentGenerator.
type Option func(*ContentGenerator)

// WithClock overrides the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *ContentGenerator) { g.now = now }
}

// NewContentGenerator creates a ContentGenerator that sends requests through client.
func NewContentGenerator(client CompletionClient, logger *slog.Logger, opts ...Option) (*ContentGenerator, error) {
	if client == nil {
		return nil, errors.New("completion client cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	g := &ContentGenerator{
		client: client,
		logger: logger.With("component", "content_generator"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate implements Generator. It makes at most one completion call and never retries.
func (g *ContentGenerator) Generate(
	ctx context.Context,
	facts domain.PropertyFacts,
	cfg GenerationConfig,
) (*domain.GeneratedContent, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: API key is empty", ErrConfiguration)
	}
	if strings.TrimSpace(facts.Name) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFacts, domain.ErrEmptyPropertyName)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := CompletionRequest{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Messages:    buildMessages(facts),
		MaxTokens:   cfg.MaxOutputTokens,
		Temperature: cfg.Temperature,
	}

	g.logger.DebugContext(ctx, "requesting completion",
		"model", cfg.Model,
		"prompt_length", len(req.Messages[1].Content),
		"timeout", timeout)

	resp, err := g.client.Complete(callCtx, req)
	if err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	text, err := firstCompletion(resp)
	if err != nil {
		return nil, err
	}

	content := parseContent(text)
	content.GeneratedAt = g.now()
	if content.Degraded {
		g.logger.WarnContext(ctx, "completion was not in the requested shape",
			"completion_length", len(text))
	}
	return &content, nil
}

// firstCompletion extracts the text of the first choice.
func firstCompletion(resp *CompletionResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrMalformedResponse)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}
	text := resp.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty completion text", ErrMalformedResponse)
	}
	return text, nil
}
