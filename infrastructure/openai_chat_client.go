package infrastructure

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"cherry-ai/infrastructure/config"
)

// OpenAIChatClient implements domain.CompletionClient with the OpenAI chat
// completions API.
type OpenAIChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIChatClient creates a new OpenAIChatClient. baseURL may be empty to
// use the public OpenAI endpoint.
func NewOpenAIChatClient(cfg config.LLMConfig, baseURL string) (*OpenAIChatClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIChatClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete asks the chat model to answer userMessage under systemPrompt.
func (c *OpenAIChatClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
