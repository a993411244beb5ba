package aiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/d8app/d8-backend/app/observability/metrics"
	"google.golang.org/genai"
)

const (
	defaultModel           = "gemini-2.0-flash"
	defaultTemperature     = 0.7
	defaultMaxOutputTokens = 2000
)

// Client wraps the genai SDK with the fixed sampling parameters every
// recommendation round trip uses.
type Client struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

// NewClient creates a completion-API client. The caller is expected to
// have checked that apiKey is non-empty; a missing key is a degraded
// feature, not a startup failure.
func NewClient(ctx context.Context, apiKey, model string, temperature float32, maxOutputTokens int32) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("completion API key is empty")
	}
	if model == "" {
		model = defaultModel
	}
	if temperature == 0 {
		temperature = defaultTemperature
	}
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxOutputTokens
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client:          client,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

// GenerateCompletion sends one chat round trip: a system role message
// plus the generated user prompt, and returns the raw model text.
func (c *Client) GenerateCompletion(ctx context.Context, systemMessage, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxOutputTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemMessage}},
		},
	}

	start := time.Now()
	chat, err := c.client.Chats.Create(ctx, c.model, config, nil)
	if err != nil {
		metrics.Get().AIRequestErrorsTotal.Add(ctx, 1)
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	response, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	metrics.Get().AIRequestDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().AIRequestErrorsTotal.Add(ctx, 1)
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	var txt string
	for _, candidate := range response.Candidates {
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			txt = candidate.Content.Parts[0].Text
			break
		}
	}
	if txt == "" {
		metrics.Get().AIRequestErrorsTotal.Add(ctx, 1)
		return "", fmt.Errorf("no valid content in completion response")
	}
	return txt, nil
}
