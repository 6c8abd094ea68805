package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cherry-ai/domain"
	"cherry-ai/infrastructure/config"
)

// BraveClient is a client for interacting with the Brave Search API.
// It implements domain.WebSearcher.
type BraveClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// BraveSearchResponse represents the structure of the JSON response from the Brave Search API.
type BraveSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// NewBraveClient creates a new BraveClient instance.
// It returns an error if no API key is configured (BRAVE_API_KEY).
func NewBraveClient(cfg config.SearchConfig) (*BraveClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("BRAVE_API_KEY is not set")
	}

	return &BraveClient{
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
	}, nil
}

// Search performs a search query against the Brave Search API and returns at
// most limit results that have a title, a link and a snippet.
func (b *BraveClient) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Add("q", query)
	if limit > 0 {
		params.Add("count", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status code %d): %s", resp.StatusCode, string(body))
	}

	var searchResp BraveSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(searchResp.Web.Results))
	for _, r := range searchResp.Web.Results {
		if r.Title == "" || r.URL == "" || r.Description == "" {
			continue
		}
		results = append(results, domain.SearchResult{Title: r.Title, Link: r.URL, Snippet: r.Description})
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results, nil
}
