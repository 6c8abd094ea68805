// Package chatclient calls the query endpoint of a running server.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cherry-ai/domain"
)

// Client posts queries to /api/query.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL (e.g. http://localhost:3000).
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 3 * time.Minute},
	}
}

type queryResponse struct {
	Answer        string        `json:"answer"`
	RelevantLinks []domain.Link `json:"relevantLinks"`
	Error         string        `json:"error"`
}

// Query sends query to the server and returns the resulting exchange.
func (c *Client) Query(ctx context.Context, query string) (*domain.ChatMessage, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error == "" {
			out.Error = resp.Status
		}
		return nil, fmt.Errorf("server error (status code %d): %s", resp.StatusCode, out.Error)
	}

	links := out.RelevantLinks
	if links == nil {
		links = []domain.Link{}
	}
	return &domain.ChatMessage{Query: query, Answer: out.Answer, RelevantLinks: links}, nil
}
