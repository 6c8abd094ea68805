package domain_test

import (
	"context"
	"strings"
	"sync"

	"cherry-ai/domain"
)

type fakeCompletion struct {
	answer     string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompletion) Complete(_ context.Context, systemPrompt, userMessage string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userMessage
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeEmbedder returns a one-dimensional embedding per text and records inputs.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
	short bool // return one embedding fewer than requested
}

func (f *fakeEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([]domain.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short && n > 0 {
		n--
	}
	out := make([]domain.Embedding, n)
	for i := range out {
		out[i] = domain.Embedding{float32(len(texts[i]))}
	}
	return out, nil
}

type fakeStore struct {
	mu       sync.Mutex
	docs     []domain.Document
	results  []domain.Document
	queryErr error
	upErr    error
	lastK    int
}

func (f *fakeStore) Upsert(_ context.Context, docs []domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upErr != nil {
		return f.upErr
	}
	f.docs = append(f.docs, docs...)
	return nil
}

func (f *fakeStore) Query(_ context.Context, _ domain.Embedding, k int) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastK = k
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.results, nil
}

type fakeSearcher struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	f.lastQuery = query
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// lineSplitter splits on newlines.
type lineSplitter struct{ err error }

func (s lineSplitter) SplitText(text string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return strings.Split(text, "\n"), nil
}
