package driven

import (
	"context"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// Normaliser transforms raw wikitext into cleaned prose.
type Normaliser interface {
	// Name returns the normaliser name for logging.
	Name() string

	// Normalise cleans a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces a CleanedDocument.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the cleaned document. Nil when Dropped is set.
	Document *domain.CleanedDocument

	// Dropped is set when the cleaned text fell under the minimum length.
	Dropped bool
}
