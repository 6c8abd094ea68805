package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"cherry-ai/domain"

	"github.com/google/uuid"
)

// MemoryStore is an in-process vector index using brute-force cosine
// similarity. It is rebuilt from scratch on every process start.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []domain.Document
	byID map[string]int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// Upsert adds documents, replacing any existing document with the same ID.
// Documents without an embedding are rejected.
func (s *MemoryStore) Upsert(ctx context.Context, docs []domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := 0
	if len(s.docs) > 0 {
		dim = len(s.docs[0].Embedding)
	}
	for _, d := range docs {
		if len(d.Embedding) == 0 {
			return fmt.Errorf("document %q has no embedding", d.ID)
		}
		if dim == 0 {
			dim = len(d.Embedding)
		}
		if len(d.Embedding) != dim {
			return fmt.Errorf("document %q: vector dimension %d, index uses %d", d.ID, len(d.Embedding), dim)
		}
	}

	for _, d := range docs {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		if i, ok := s.byID[d.ID]; ok {
			s.docs[i] = d
			continue
		}
		s.byID[d.ID] = len(s.docs)
		s.docs = append(s.docs, d)
	}
	return nil
}

// Query returns up to k documents ordered by descending cosine similarity.
// Ties keep insertion order.
func (s *MemoryStore) Query(ctx context.Context, embedding domain.Embedding, k int) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(s.docs))
	for i, d := range s.docs {
		scores[i] = scored{idx: i, score: cosine(d.Embedding, embedding)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]domain.Document, k)
	for i := 0; i < k; i++ {
		out[i] = s.docs[scores[i].idx]
	}
	return out, nil
}

// Len returns the number of indexed documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func cosine(a, b domain.Embedding) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
