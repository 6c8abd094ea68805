package domain

import "context"

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// WebSearcher runs web searches for the query pipeline.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
