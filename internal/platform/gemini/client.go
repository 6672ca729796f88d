package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/estate-api/internal/generation"
	"google.golang.org/genai"
)

// Client sends completion requests to the Gemini API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. An empty baseURL selects the SDK default
// endpoint and a nil httpClient the SDK default transport.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Client{
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: httpClient,
		logger:     logger.With("component", "gemini_client"),
	}, nil
}

// Complete implements generation.CompletionClient.
func (c *Client) Complete(
	ctx context.Context,
	req generation.CompletionRequest,
) (*generation.CompletionResponse, error) {
	cc := &genai.ClientConfig{
		APIKey:     req.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	contents, system := splitMessages(req.Messages)
	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxTokens),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", generation.ErrMalformedResponse)
	}

	out := &generation.CompletionResponse{Choices: make([]generation.Choice, 0, len(resp.Candidates))}
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		out.Choices = append(out.Choices, generation.Choice{
			Content:      candidateText(cand),
			FinishReason: string(cand.FinishReason),
		})
	}

	if len(out.Choices) > 0 && firstCandidateBlocked(resp) {
		c.logger.WarnContext(ctx, "gemini response stopped by safety filters",
			"finish_reason", out.Choices[0].FinishReason)
	}
	return out, nil
}

// splitMessages maps chat messages onto Gemini contents. System messages are
// merged into a single system instruction.
func splitMessages(msgs []generation.Message) ([]*genai.Content, *genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case generation.RoleSystem:
			system = append(system, m.Content)
		case "assistant", "model":
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	if len(system) == 0 {
		return contents, nil
	}
	return contents, &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}}
}

// candidateText concatenates the non-thought text parts of a candidate.
func candidateText(cand *genai.Candidate) string {
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

func firstCandidateBlocked(resp *genai.GenerateContentResponse) bool {
	return resp.Candidates[0] != nil && resp.Candidates[0].FinishReason == genai.FinishReasonSafety
}
