package application

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cherry-ai/domain"
)

// ErrEmptyQuery is returned when a query has no content.
var ErrEmptyQuery = errors.New("query is required")

// Answerer is the pipeline the chatbot service drives.
type Answerer interface {
	Answer(ctx context.Context, query string) (*domain.ChatMessage, error)
}

// ChatbotService provides the entry point transports use to ask questions.
// It validates input, logs each exchange and exposes the chat history.
type ChatbotService struct {
	assistant Answerer
	history   *domain.ChatHistory
}

// NewChatbotService creates a new ChatbotService over the given assistant.
func NewChatbotService(assistant *domain.Assistant) *ChatbotService {
	return &ChatbotService{
		assistant: assistant,
		history:   assistant.History,
	}
}

// NewChatbotServiceWith creates a ChatbotService from any Answerer and history.
func NewChatbotServiceWith(answerer Answerer, history *domain.ChatHistory) *ChatbotService {
	return &ChatbotService{assistant: answerer, history: history}
}

// Ask answers a single query. Blank queries return ErrEmptyQuery; any pipeline
// error is logged and returned unchanged.
func (s *ChatbotService) Ask(ctx context.Context, query string) (*domain.ChatMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	msg, err := s.assistant.Answer(ctx, query)
	if err != nil {
		log.Printf("An error occurred: %v\n", err)
		return nil, err
	}
	log.Printf("Answered query in %s with %d links.\n", time.Since(start).Round(time.Millisecond), len(msg.RelevantLinks))
	return msg, nil
}

// History returns a copy of the chat history.
func (s *ChatbotService) History() []string {
	if s.history == nil {
		return []string{}
	}
	return s.history.Entries()
}
