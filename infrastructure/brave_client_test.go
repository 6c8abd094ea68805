package infrastructure_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cherry-ai/domain"
	"cherry-ai/infrastructure"
	"cherry-ai/infrastructure/config"
)

func TestNewBraveClient_RequiresKey(t *testing.T) {
	_, err := infrastructure.NewBraveClient(config.SearchConfig{})
	assert.Error(t, err)
}

func TestBraveClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		assert.Equal(t, "key", r.Header.Get("X-Subscription-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"Go","url":"https://go.dev","description":"The Go language"},
			{"title":"","url":"https://empty.example","description":"no title"},
			{"title":"Tour","url":"https://go.dev/tour","description":"A tour of Go"},
			{"title":"Blog","url":"https://go.dev/blog","description":"The Go blog"}
		]}}`))
	}))
	defer srv.Close()

	c, err := infrastructure.NewBraveClient(config.SearchConfig{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	results, err := c.Search(context.Background(), "golang", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.SearchResult{
		{Title: "Go", Link: "https://go.dev", Snippet: "The Go language"},
		{Title: "Tour", Link: "https://go.dev/tour", Snippet: "A tour of Go"},
	}, results)
}

func TestBraveClient_SearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := infrastructure.NewBraveClient(config.SearchConfig{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "golang", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestBraveClient_SearchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, err := infrastructure.NewBraveClient(config.SearchConfig{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "golang", 5)
	assert.Error(t, err)
}
