package driven

import (
	"context"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// CategorySource lists the members of a category, one page at a time.
type CategorySource interface {
	// ListMembers fetches a single page of members.
	// Transport and decode failures wrap domain.ErrTransport and domain.ErrDecode.
	ListMembers(ctx context.Context, query domain.MemberQuery) (*domain.MemberPage, error)

	// WalkMembers follows continuation tokens until the listing is exhausted
	// or the per-node page cap is hit, calling visit for every page.
	// A failure ends the walk; pages already visited stay delivered and the
	// error is returned so the caller can record it.
	WalkMembers(ctx context.Context, query domain.MemberQuery, visit func(*domain.MemberPage) error) error
}

// ContentSource fetches raw wikitext for a batch of titles.
type ContentSource interface {
	// FetchContent returns one RawDocument per title that has content.
	// Titles that are missing or empty are silently absent from the result.
	FetchContent(ctx context.Context, titles []string) ([]domain.RawDocument, error)
}
