package embedding

import (
	"context"
	"errors"
	"fmt"

	"cherry-ai/domain"
	"cherry-ai/infrastructure/config"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbeddingClient implements the domain.EmbeddingClient interface using the OpenAI API.
type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  openai.EmbeddingModel // e.g., text-embedding-3-small
}

// NewOpenAIEmbeddingClient creates a new OpenAIEmbeddingClient.
// The API key comes from OPENAI_API_KEY via the config layer.
func NewOpenAIEmbeddingClient(cfg config.EmbedderConfig) (*OpenAIEmbeddingClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbeddingClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  openai.EmbeddingModel(cfg.Model),
	}, nil
}

// GenerateEmbeddings generates embeddings for the given texts using the configured OpenAI model.
func (c *OpenAIEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([]domain.Embedding, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: c.model,
	}

	resp, err := c.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	// the API may return data out of order; Index maps back to the input
	embeddings := make([]domain.Embedding, len(texts))
	for i, data := range resp.Data {
		idx := data.Index
		if idx < 0 || idx >= len(texts) {
			idx = i
		}
		embeddings[idx] = domain.Embedding(data.Embedding)
	}

	return embeddings, nil
}
