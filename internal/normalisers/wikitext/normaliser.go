package wikitext

import (
	"context"
	"unicode/utf8"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser cleans raw wikitext and drops documents that end up too short.
type Normaliser struct {
	minLength int
}

// New creates a wikitext normaliser. A non-positive minLength falls back to
// domain.MinCleanedLength.
func New(minLength int) *Normaliser {
	if minLength <= 0 {
		minLength = domain.MinCleanedLength
	}
	return &Normaliser{minLength: minLength}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "wikitext"
}

// MinLength returns the minimum cleaned length in characters.
func (n *Normaliser) MinLength() int {
	return n.minLength
}

// Normalise cleans raw.RawContent. A result shorter than the minimum length
// is reported as dropped rather than as an error.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := Clean(raw.RawContent)
	if utf8.RuneCountInString(content) < n.minLength {
		return &driven.NormaliseResult{Dropped: true}, nil
	}

	return &driven.NormaliseResult{
		Document: &domain.CleanedDocument{
			Title:   raw.Title,
			Content: content,
		},
	}, nil
}
