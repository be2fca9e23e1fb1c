package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Ensure Searcher implements the interface.
var _ driving.SearchService = (*Searcher)(nil)

// DefaultTopK is the number of hits returned when none is requested.
const DefaultTopK = 5

// Searcher answers similarity queries against the vector store.
type Searcher struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewSearcher creates a new searcher.
func NewSearcher(embedder driven.EmbeddingService, store driven.VectorStore) *Searcher {
	return &Searcher{
		embedder: embedder,
		store:    store,
	}
}

// Search embeds query and returns up to topK hits, best first.
// A blank query returns no hits.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]domain.ScoredPoint, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Debug("Query: %q (top %d)", query, topK)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	return hits, nil
}
