package driving

import (
	"context"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// SearchService answers similarity queries against the ingested corpus.
type SearchService interface {
	// Search embeds query and returns up to topK hits, best first.
	Search(ctx context.Context, query string, topK int) ([]domain.ScoredPoint, error)
}
