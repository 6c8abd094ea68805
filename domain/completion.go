package domain

import "context"

// CompletionClient defines the interface for a chat-completion model.
// It answers a single human message under the given system prompt.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
