package domain

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = "You are an AI assistant with access to a knowledge base. " +
	"Answer the user's question based on the following context: %s. " +
	"Provide a detailed answer of up to 300 words. Consider the chat history for context. " +
	"After your answer, provide a list of up to 5 relevant web links."

// DefaultMaxContextLength limits the characters of context placed in the prompt.
const DefaultMaxContextLength = 4000

// BuildSystemPrompt renders the system prompt around the formatted context.
func BuildSystemPrompt(context string) string {
	return fmt.Sprintf(systemPromptTemplate, context)
}

// FormatContext formats retrieved documents followed by web results into the
// prompt context. Entries that would push the text past maxLength are left out.
func FormatContext(docs []Document, results []SearchResult, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxContextLength
	}

	var entries []string
	for _, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			continue
		}
		entries = append(entries, d.Content)
	}
	for _, r := range results {
		entries = append(entries, fmt.Sprintf("%s (%s): %s", r.Title, r.Link, r.Snippet))
	}
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	for _, e := range entries {
		sep := 0
		if b.Len() > 0 {
			sep = 1
		}
		if b.Len()+sep+len(e) > maxLength {
			continue
		}
		if sep == 1 {
			b.WriteString("\n")
		}
		b.WriteString(e)
	}
	return b.String()
}
