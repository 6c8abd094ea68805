package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"cherry-ai/infrastructure/config"
)

// AnthropicClient is a wrapper around the Anthropic API client.
// It implements domain.CompletionClient.
type AnthropicClient struct {
	client      *anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
}

// NewAnthropicClient creates a new Anthropic client.
//
// It returns an error if no API key is configured (ANTHROPIC_API_KEY).
// Extra request options, such as a custom base URL, are passed through to the SDK.
func NewAnthropicClient(cfg config.LLMConfig, opts ...option.RequestOption) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is not set")
	}

	client := anthropic.NewClient(
		append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)...,
	)

	return &AnthropicClient{
		client:      &client,
		model:       anthropic.Model(cfg.Model),
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends the system prompt and a single user message to the Anthropic
// API and returns the concatenated text blocks of the reply.
func (a *AnthropicClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(a.temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var parts []string
	for _, content := range message.Content {
		if content.Type == "text" {
			parts = append(parts, content.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic messages: response has no text content")
	}
	return strings.Join(parts, "\n"), nil
}
