package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cherry-ai/domain"
)

type pipeline struct {
	completion *fakeCompletion
	embedder   *fakeEmbedder
	store      *fakeStore
	searcher   *fakeSearcher
	assistant  *domain.Assistant
}

func newPipeline(withSearch bool) *pipeline {
	p := &pipeline{
		completion: &fakeCompletion{answer: "Go is a programming language."},
		embedder:   &fakeEmbedder{},
		store:      &fakeStore{},
		searcher:   &fakeSearcher{},
	}
	var searcher domain.WebSearcher
	if withSearch {
		searcher = p.searcher
	}
	p.assistant = domain.NewAssistant(p.completion, p.embedder, p.store, lineSplitter{}, searcher, domain.AssistantOptions{})
	return p
}

func TestAssistant_AnswerRunsPipeline(t *testing.T) {
	p := newPipeline(true)
	p.store.results = []domain.Document{
		{Content: "Query: hi\nResponse: hello", Metadata: map[string]string{domain.MetadataSource: domain.SourceChatHistory}},
	}
	p.searcher.results = []domain.SearchResult{
		{Title: "The Go Programming Language", Link: "https://go.dev", Snippet: "Build simple, secure, scalable systems"},
		{Title: "Go (duplicate)", Link: "https://go.dev", Snippet: "again"},
	}

	msg, err := p.assistant.Answer(context.Background(), "what is go?")
	require.NoError(t, err)

	assert.Equal(t, "what is go?", msg.Query)
	assert.Equal(t, "Go is a programming language.", msg.Answer)
	assert.Equal(t, []domain.Link{
		{Title: "The Go Programming Language", Link: "https://go.dev", Snippet: "Build simple, secure, scalable systems"},
		{Title: "chat history", Link: "chat history"},
	}, msg.RelevantLinks)

	assert.Equal(t, "what is go?", p.completion.lastUser)
	assert.Contains(t, p.completion.lastSystem, "Query: hi\nResponse: hello")
	assert.Contains(t, p.completion.lastSystem, "Build simple, secure, scalable systems")
	assert.Contains(t, p.completion.lastSystem, "up to 300 words")

	assert.Equal(t, "what is go?", p.searcher.lastQuery)
	assert.Equal(t, 5, p.searcher.lastLimit)
	assert.Equal(t, 3, p.store.lastK)
}

func TestAssistant_IndexesExchangeAsChatHistory(t *testing.T) {
	p := newPipeline(false)

	_, err := p.assistant.Answer(context.Background(), "what is go?")
	require.NoError(t, err)

	require.Len(t, p.store.docs, 2)
	assert.Equal(t, "Query: what is go?", p.store.docs[0].Content)
	assert.Equal(t, "Response: Go is a programming language.", p.store.docs[1].Content)
	for _, d := range p.store.docs {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Embedding)
		assert.Equal(t, domain.SourceChatHistory, d.Source())
	}
}

func TestAssistant_HistoryGrowsMonotonically(t *testing.T) {
	p := newPipeline(false)
	ctx := context.Background()

	_, err := p.assistant.Answer(ctx, "first")
	require.NoError(t, err)
	_, err = p.assistant.Answer(ctx, "second")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"first", "Go is a programming language.",
		"second", "Go is a programming language.",
	}, p.assistant.History.Entries())

	// the retrieval embedding covers the whole history including the new query
	// calls alternate: retrieval, exchange chunks, retrieval, exchange chunks
	require.Len(t, p.embedder.calls, 4)
	assert.Equal(t, []string{"first"}, p.embedder.calls[0])
	assert.Equal(t, []string{"first Go is a programming language. second"}, p.embedder.calls[2])
}

func TestAssistant_WithoutSearchUsesDocumentSources(t *testing.T) {
	p := newPipeline(false)
	p.store.results = []domain.Document{
		{Content: "a", Metadata: map[string]string{domain.MetadataSource: "docs/intro.md"}},
		{Content: "b", Metadata: map[string]string{domain.MetadataSource: "docs/intro.md"}},
		{Content: "c"},
	}

	msg, err := p.assistant.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []domain.Link{{Title: "docs/intro.md", Link: "docs/intro.md"}}, msg.RelevantLinks)
}

func TestAssistant_EmptyIndexStillAnswers(t *testing.T) {
	p := newPipeline(false)

	msg, err := p.assistant.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.NotNil(t, msg.RelevantLinks)
	assert.Empty(t, msg.RelevantLinks)
}

func TestAssistant_FailuresAbortRequest(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		mutate func(p *pipeline)
	}{
		{"embedding", func(p *pipeline) { p.embedder.err = boom }},
		{"vector query", func(p *pipeline) { p.store.queryErr = boom }},
		{"web search", func(p *pipeline) { p.searcher.err = boom }},
		{"completion", func(p *pipeline) { p.completion.err = boom }},
		{"vector upsert", func(p *pipeline) { p.store.upErr = boom }},
		{"splitter", func(p *pipeline) { p.assistant.Splitter = lineSplitter{err: boom} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(true)
			tt.mutate(p)

			msg, err := p.assistant.Answer(context.Background(), "q")
			require.Error(t, err)
			assert.Nil(t, msg)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestAssistant_EmbeddingCountMismatch(t *testing.T) {
	p := newPipeline(false)
	p.embedder.short = true

	_, err := p.assistant.Answer(context.Background(), "q")
	require.Error(t, err)
}

func TestNewAssistant_AppliesDefaults(t *testing.T) {
	a := domain.NewAssistant(nil, nil, nil, nil, nil, domain.AssistantOptions{TopK: 7})
	assert.Equal(t, 7, a.Options.TopK)
	assert.Equal(t, 5, a.Options.SearchLimit)
	assert.Equal(t, domain.MaxRelevantLinks, a.Options.LinkLimit)
	assert.Equal(t, domain.DefaultMaxContextLength, a.Options.MaxContextLength)
	assert.Equal(t, 0, a.History.Len())
}

func TestNewAssistant_CapsLinkLimit(t *testing.T) {
	a := domain.NewAssistant(nil, nil, nil, nil, nil, domain.AssistantOptions{LinkLimit: 12})
	assert.Equal(t, domain.MaxRelevantLinks, a.Options.LinkLimit)

	a = domain.NewAssistant(nil, nil, nil, nil, nil, domain.AssistantOptions{LinkLimit: 2})
	assert.Equal(t, 2, a.Options.LinkLimit)
}
