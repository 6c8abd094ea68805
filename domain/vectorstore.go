package domain

import "context"

// VectorStore defines the interface for interacting with a vector index.
type VectorStore interface {
	// Upsert adds or updates documents in the vector store.
	Upsert(ctx context.Context, docs []Document) error
	// Query returns up to k documents closest to the given embedding, best match first.
	Query(ctx context.Context, embedding Embedding, k int) ([]Document, error)
}
