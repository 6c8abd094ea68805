// Package splitter wraps langchaingo's recursive character splitter.
package splitter

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// RecursiveSplitter splits text on paragraph, line, then word boundaries
// until every chunk fits in the configured size.
type RecursiveSplitter struct {
	splitter textsplitter.RecursiveCharacter
}

// NewRecursiveSplitter creates a splitter producing chunks of at most
// chunkSize characters that overlap by chunkOverlap characters.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	return &RecursiveSplitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}
}

// SplitText splits text into chunks, dropping blank ones.
func (s *RecursiveSplitter) SplitText(text string) ([]string, error) {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out, nil
}
