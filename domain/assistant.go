package domain

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AssistantOptions tunes the query pipeline.
type AssistantOptions struct {
	TopK             int // documents retrieved from the vector store
	SearchLimit      int // web results requested per query
	LinkLimit        int // links returned with an answer
	MaxContextLength int // characters of context in the system prompt
}

// DefaultAssistantOptions returns the options the service runs with by default.
func DefaultAssistantOptions() AssistantOptions {
	return AssistantOptions{
		TopK:             3,
		SearchLimit:      5,
		LinkLimit:        MaxRelevantLinks,
		MaxContextLength: DefaultMaxContextLength,
	}
}

// Assistant answers queries with retrieval-augmented generation. It owns the
// process-wide chat history and writes every exchange back into the vector
// store so later queries can retrieve it.
type Assistant struct {
	Completion      CompletionClient
	EmbeddingClient EmbeddingClient
	VectorStore     VectorStore
	Splitter        TextSplitter
	WebSearcher     WebSearcher // optional; nil disables web search
	History         *ChatHistory
	Options         AssistantOptions

	// mu serializes Answer calls so history and index updates stay in request order.
	mu sync.Mutex
}

// NewAssistant creates a new Assistant with the provided dependencies.
func NewAssistant(completion CompletionClient, embeddingClient EmbeddingClient, vectorStore VectorStore, splitter TextSplitter, webSearcher WebSearcher, opts AssistantOptions) *Assistant {
	defaults := DefaultAssistantOptions()
	if opts.TopK <= 0 {
		opts.TopK = defaults.TopK
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = defaults.SearchLimit
	}
	if opts.LinkLimit <= 0 || opts.LinkLimit > MaxRelevantLinks {
		opts.LinkLimit = defaults.LinkLimit
	}
	if opts.MaxContextLength <= 0 {
		opts.MaxContextLength = defaults.MaxContextLength
	}
	return &Assistant{
		Completion:      completion,
		EmbeddingClient: embeddingClient,
		VectorStore:     vectorStore,
		Splitter:        splitter,
		WebSearcher:     webSearcher,
		History:         NewChatHistory(),
		Options:         opts,
	}
}

// Answer runs the full pipeline for one query:
//  1. record the query in the chat history
//  2. retrieve documents related to the whole history
//  3. search the web for the query, when a searcher is configured
//  4. ask the completion model with the assembled context
//  5. record the answer and index the exchange
//
// Any failure aborts the request; nothing is retried.
func (a *Assistant) Answer(ctx context.Context, query string) (*ChatMessage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.History.Append(query)

	docs, err := a.retrieve(ctx, a.History.Joined())
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	if a.WebSearcher != nil {
		results, err = a.WebSearcher.Search(ctx, query, a.Options.SearchLimit)
		if err != nil {
			return nil, errors.Wrap(err, "web search")
		}
		log.Printf("Web search returned %d results.\n", len(results))
	}

	systemPrompt := BuildSystemPrompt(FormatContext(docs, results, a.Options.MaxContextLength))
	answer, err := a.Completion.Complete(ctx, systemPrompt, query)
	if err != nil {
		return nil, errors.Wrap(err, "completion")
	}

	a.History.Append(answer)

	if err := a.remember(ctx, query, answer); err != nil {
		return nil, err
	}

	return &ChatMessage{
		Query:         query,
		Answer:        answer,
		RelevantLinks: relevantLinks(results, docs, a.Options.LinkLimit),
	}, nil
}

// retrieve embeds text and returns the closest documents in the vector store.
func (a *Assistant) retrieve(ctx context.Context, text string) ([]Document, error) {
	embeddings, err := a.EmbeddingClient.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, errors.Wrap(err, "embed chat history")
	}
	if len(embeddings) == 0 {
		return nil, errors.New("embed chat history: no embedding returned")
	}

	docs, err := a.VectorStore.Query(ctx, embeddings[0], a.Options.TopK)
	if err != nil {
		return nil, errors.Wrap(err, "query vector store")
	}
	log.Printf("Retrieved %d documents from vector store.\n", len(docs))
	return docs, nil
}

// remember splits the exchange into chunks and indexes them as chat history.
func (a *Assistant) remember(ctx context.Context, query, answer string) error {
	chunks, err := a.Splitter.SplitText(fmt.Sprintf("Query: %s\nResponse: %s", query, answer))
	if err != nil {
		return errors.Wrap(err, "split exchange")
	}
	if len(chunks) == 0 {
		return nil
	}

	embeddings, err := a.EmbeddingClient.GenerateEmbeddings(ctx, chunks)
	if err != nil {
		return errors.Wrap(err, "embed exchange")
	}
	if len(embeddings) != len(chunks) {
		return errors.Errorf("mismatch between number of chunks (%d) and embeddings (%d)", len(chunks), len(embeddings))
	}

	docs := make([]Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = Document{
			ID:        uuid.New().String(),
			Content:   chunk,
			Metadata:  map[string]string{MetadataSource: SourceChatHistory},
			Embedding: embeddings[i],
		}
	}
	if err := a.VectorStore.Upsert(ctx, docs); err != nil {
		return errors.Wrap(err, "update vector store")
	}
	return nil
}

// relevantLinks lists web results first, then the sources of retrieved documents.
func relevantLinks(results []SearchResult, docs []Document, limit int) []Link {
	links := make([]Link, 0, len(results)+len(docs))
	for _, r := range results {
		links = append(links, Link{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
	}
	for _, d := range docs {
		if src := d.Source(); src != "" {
			links = append(links, Link{Title: src, Link: src})
		}
	}
	return DedupeLinks(links, limit)
}
