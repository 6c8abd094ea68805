package domain

import "context"

// Embedding represents a numerical vector representation of text.
type Embedding []float32

// EmbeddingClient defines the interface for turning text into embeddings.
type EmbeddingClient interface {
	// GenerateEmbeddings returns one embedding per input text, in input order.
	GenerateEmbeddings(ctx context.Context, texts []string) ([]Embedding, error)
}
