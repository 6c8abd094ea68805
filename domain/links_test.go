package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"cherry-ai/domain"
)

func TestDedupeLinks(t *testing.T) {
	tests := []struct {
		name  string
		in    []domain.Link
		limit int
		want  []domain.Link
	}{
		{
			name: "nil input gives empty slice",
			in:   nil,
			want: []domain.Link{},
		},
		{
			name: "first occurrence wins",
			in: []domain.Link{
				{Title: "a", Link: "https://a.example"},
				{Title: "b", Link: "https://b.example"},
				{Title: "a again", Link: "https://a.example"},
			},
			want: []domain.Link{
				{Title: "a", Link: "https://a.example"},
				{Title: "b", Link: "https://b.example"},
			},
		},
		{
			name: "empty links dropped",
			in:   []domain.Link{{Title: "blank", Link: "  "}, {Title: "ok", Link: "https://ok.example"}},
			want: []domain.Link{{Title: "ok", Link: "https://ok.example"}},
		},
		{
			name:  "explicit limit",
			in:    []domain.Link{{Link: "1"}, {Link: "2"}, {Link: "3"}},
			limit: 2,
			want:  []domain.Link{{Link: "1"}, {Link: "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DedupeLinks(tt.in, tt.limit))
		})
	}
}

func TestDedupeLinks_DefaultLimit(t *testing.T) {
	var in []domain.Link
	for i := 0; i < 12; i++ {
		in = append(in, domain.Link{Link: fmt.Sprintf("https://example.com/%d", i)})
	}
	got := domain.DedupeLinks(in, 0)
	assert.Len(t, got, domain.MaxRelevantLinks)
	assert.Equal(t, "https://example.com/4", got[4].Link)
}

func TestExtractLinks(t *testing.T) {
	answer := "See https://go.dev/doc and http://example.com/a?b=c for more.\nNo link here."
	assert.Equal(t, []string{"https://go.dev/doc", "http://example.com/a?b=c"}, domain.ExtractLinks(answer))
	assert.Empty(t, domain.ExtractLinks("plain text"))
}
