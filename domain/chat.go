package domain

import (
	"strings"
	"sync"
)

// Link is a source link shown next to an answer.
type Link struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// ChatMessage is one query/answer exchange as the client keeps it.
type ChatMessage struct {
	Query         string `json:"query"`
	Answer        string `json:"answer"`
	RelevantLinks []Link `json:"relevantLinks"`
}

// ChatThread is an ordered list of exchanges.
type ChatThread []ChatMessage

// ChatHistory is the server-side conversational memory: every query and
// every answer, in the order they happened. It only grows.
type ChatHistory struct {
	mu      sync.RWMutex
	entries []string
}

// NewChatHistory creates an empty ChatHistory.
func NewChatHistory() *ChatHistory {
	return &ChatHistory{}
}

// Append adds an entry at the end of the history.
func (h *ChatHistory) Append(entry string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
}

// Entries returns a copy of the history.
func (h *ChatHistory) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *ChatHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Joined returns all entries joined with a single space. This is the text
// used to look up related exchanges in the vector store.
func (h *ChatHistory) Joined() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return strings.Join(h.entries, " ")
}
