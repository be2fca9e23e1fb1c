// Package memory provides in-memory implementations of driven ports for tests
// and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Points keep their first insertion position when replaced.
type VectorStore struct {
	mu     sync.RWMutex
	order  []string
	points map[string]domain.Point
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		points: make(map[string]domain.Point),
	}
}

// Upsert inserts or replaces points by ID.
func (s *VectorStore) Upsert(_ context.Context, points []domain.Point) error {
	for i := range points {
		if points[i].ID == "" {
			return fmt.Errorf("%w: point %d has no id", domain.ErrInvalidInput, i)
		}
		if len(points[i].Vector) == 0 {
			return fmt.Errorf("%w: point %s has an empty vector", domain.ErrInvalidInput, points[i].ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		if _, ok := s.points[p.ID]; !ok {
			s.order = append(s.order, p.ID)
		}
		p.Vector = append([]float32(nil), p.Vector...)
		s.points[p.ID] = p
	}
	return nil
}

// Query returns the topK points most similar to vector, best first.
func (s *VectorStore) Query(_ context.Context, vector []float32, topK int) ([]domain.ScoredPoint, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.ScoredPoint, 0, len(s.order))
	for _, id := range s.order {
		p := s.points[id]
		if len(p.Vector) != len(vector) {
			return nil, fmt.Errorf("%w: query has %d dimensions, point %s has %d",
				domain.ErrInvalidInput, len(vector), id, len(p.Vector))
		}
		hits = append(hits, domain.ScoredPoint{
			ID:      id,
			Score:   domain.CosineSimilarity(vector, p.Vector),
			Payload: p.Payload,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Count returns the number of stored points.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points), nil
}

// Get returns a stored point by ID.
func (s *VectorStore) Get(id string) (domain.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[id]
	return p, ok
}

// Close releases resources (no-op for memory store).
func (s *VectorStore) Close() error {
	return nil
}
