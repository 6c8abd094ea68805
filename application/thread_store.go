package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cherry-ai/domain"
)

// ThreadStore keeps the client's chat threads and which one is selected.
// Threads are saved as a JSON array of arrays of messages after every change.
// There is always at least one thread.
type ThreadStore struct {
	mu      sync.Mutex
	path    string
	threads []domain.ChatThread
	current int
}

// DefaultThreadsPath returns ~/.config/cherry-ai/chats.json.
func DefaultThreadsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cherry-ai", "chats.json"), nil
}

// LoadThreadStore reads threads from path. A missing file starts with one
// empty thread. The last thread is selected.
func LoadThreadStore(path string) (*ThreadStore, error) {
	s := &ThreadStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read chats: %w", err)
	default:
		if err := json.Unmarshal(data, &s.threads); err != nil {
			return nil, fmt.Errorf("failed to parse chats %s: %w", path, err)
		}
	}

	if len(s.threads) == 0 {
		s.threads = []domain.ChatThread{{}}
	}
	s.current = len(s.threads) - 1
	return s, nil
}

// Threads returns a copy of all threads.
func (s *ThreadStore) Threads() []domain.ChatThread {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatThread, len(s.threads))
	for i, t := range s.threads {
		out[i] = append(domain.ChatThread(nil), t...)
	}
	return out
}

// Current returns the selected thread index.
func (s *ThreadStore) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentThread returns a copy of the selected thread.
func (s *ThreadStore) CurrentThread() domain.ChatThread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(domain.ChatThread(nil), s.threads[s.current]...)
}

// Append adds a message to the selected thread and saves.
func (s *ThreadStore) Append(msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendTo(s.current, msg)
}

// AppendTo adds a message to the thread at index and saves. The selection
// does not change.
func (s *ThreadStore) AppendTo(index int, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.threads) {
		return fmt.Errorf("chat %d does not exist", index)
	}
	return s.appendTo(index, msg)
}

func (s *ThreadStore) appendTo(index int, msg domain.ChatMessage) error {
	s.threads[index] = append(s.threads[index], msg)
	return s.save()
}

// NewThread adds an empty thread, selects it and saves.
func (s *ThreadStore) NewThread() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads = append(s.threads, domain.ChatThread{})
	s.current = len(s.threads) - 1
	return s.save()
}

// Switch selects the thread at index.
func (s *ThreadStore) Switch(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.threads) {
		return fmt.Errorf("chat %d does not exist", index)
	}
	s.current = index
	return nil
}

// Delete removes the thread at index and saves. Deleting the selected thread
// selects the one before it (or the first); deleting an earlier thread keeps
// the same thread selected. Deleting the last remaining thread leaves a
// fresh empty one.
func (s *ThreadStore) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.threads) {
		return fmt.Errorf("chat %d does not exist", index)
	}

	s.threads = append(s.threads[:index], s.threads[index+1:]...)
	switch {
	case index == s.current:
		if index > 0 {
			s.current = index - 1
		} else {
			s.current = 0
		}
	case index < s.current:
		s.current--
	}
	if len(s.threads) == 0 {
		s.threads = []domain.ChatThread{{}}
		s.current = 0
	}
	return s.save()
}

func (s *ThreadStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(s.threads)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
