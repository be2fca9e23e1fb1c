package driven

import (
	"context"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// VectorStore persists chunk vectors and answers similarity queries.
type VectorStore interface {
	// Upsert inserts or replaces points by ID.
	Upsert(ctx context.Context, points []domain.Point) error

	// Query returns the topK points most similar to vector, best first.
	Query(ctx context.Context, vector []float32, topK int) ([]domain.ScoredPoint, error)

	// Count returns the number of stored points.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
