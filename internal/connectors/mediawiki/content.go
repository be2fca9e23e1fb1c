package mediawiki

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// FetchContent returns the current wikitext for up to MaxTitlesPerQuery titles.
// Pages that are missing or have no content are left out.
func (c *Client) FetchContent(ctx context.Context, titles []string) ([]domain.RawDocument, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	if len(titles) > MaxTitlesPerQuery {
		return nil, fmt.Errorf("%w: %w: %d > %d",
			domain.ErrInvalidInput, ErrTooManyTitles, len(titles), MaxTitlesPerQuery)
	}

	params := baseParams()
	params.Set("prop", "revisions")
	params.Set("titles", strings.Join(titles, "|"))
	params.Set("rvprop", "content")
	params.Set("rvslots", "main")

	resp, err := c.query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	if resp.Query == nil {
		return nil, nil
	}

	docs := make([]domain.RawDocument, 0, len(resp.Query.Pages))
	for _, p := range resp.Query.Pages {
		if p.Missing || len(p.Revisions) == 0 {
			continue
		}
		content := revisionContent(p.Revisions[0])
		if content == "" {
			continue
		}
		docs = append(docs, domain.RawDocument{Title: p.Title, RawContent: content})
	}
	return docs, nil
}

// revisionContent reads the main slot, falling back to the legacy layouts.
func revisionContent(rev apiRevision) string {
	if main, ok := rev.Slots["main"]; ok {
		if main.Content != nil {
			return *main.Content
		}
		if main.Legacy != nil {
			return *main.Legacy
		}
	}
	if rev.Legacy != nil {
		return *rev.Legacy
	}
	return ""
}
