package mediawiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// apiPage is one entry of query.pages.
type apiPage struct {
	PageID    int64         `json:"pageid"`
	Namespace int           `json:"ns"`
	Title     string        `json:"title"`
	Missing   missingFlag   `json:"missing"`
	Revisions []apiRevision `json:"revisions"`
}

// apiRevision carries either a revision id or revision content depending on rvprop.
type apiRevision struct {
	RevID  int64              `json:"revid"`
	Slots  map[string]apiSlot `json:"slots"`
	Legacy *string            `json:"*"`
}

type apiSlot struct {
	Content *string `json:"content"`
	Legacy  *string `json:"*"`
}

// missingFlag decodes both `"missing": true` and the legacy `"missing": ""`.
type missingFlag bool

func (m *missingFlag) UnmarshalJSON(data []byte) error {
	*m = missingFlag(!bytes.Equal(data, []byte("false")) && !bytes.Equal(data, []byte("null")))
	return nil
}

// pageList decodes query.pages in both shapes the API produces: an array
// (formatversion=2) or an object keyed by page id. Keyed entries are ordered
// by numeric id so results stay deterministic.
type pageList []apiPage

func (p *pageList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}
	if data[0] == '[' {
		var pages []apiPage
		if err := json.Unmarshal(data, &pages); err != nil {
			return err
		}
		*p = pages
		return nil
	}

	var keyed map[string]apiPage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return err
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	pages := make([]apiPage, 0, len(keys))
	for _, k := range keys {
		pages = append(pages, keyed[k])
	}
	*p = pages
	return nil
}

// encodeContinue turns the API's continue object into an opaque token.
func encodeContinue(cont map[string]any) string {
	if len(cont) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range cont {
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}

// applyContinue merges a token produced by encodeContinue into params.
func applyContinue(params url.Values, token string) error {
	if token == "" {
		return nil
	}
	values, err := url.ParseQuery(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContinuation, err)
	}
	for k, v := range values {
		params[k] = v
	}
	return nil
}

// ListMembers fetches one page of category members.
func (c *Client) ListMembers(ctx context.Context, q domain.MemberQuery) (*domain.MemberPage, error) {
	types := q.Types
	if types == "" {
		types = domain.MemberBoth
	}
	if !types.IsValid() {
		return nil, fmt.Errorf("%w: member type %q", domain.ErrInvalidInput, types)
	}
	if q.Root == "" {
		return nil, fmt.Errorf("%w: empty category title", domain.ErrInvalidInput)
	}

	params := baseParams()
	params.Set("generator", "categorymembers")
	params.Set("gcmtitle", q.Root)
	params.Set("gcmlimit", "max")
	params.Set("gcmtype", string(types))
	params.Set("prop", "revisions")
	params.Set("rvprop", "ids")
	if err := applyContinue(params, q.Continue); err != nil {
		return nil, err
	}

	resp, err := c.query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list members of %s: %w", q.Root, err)
	}

	page := &domain.MemberPage{Continue: encodeContinue(resp.Continue)}
	if resp.Query == nil {
		return page, nil
	}
	for _, p := range resp.Query.Pages {
		if p.Title == "" {
			continue
		}
		m := domain.Member{
			Title:     p.Title,
			Namespace: domain.Namespace(p.Namespace),
		}
		if len(p.Revisions) > 0 {
			m.RevisionID = p.Revisions[0].RevID
		}
		page.Members = append(page.Members, m)
	}
	return page, nil
}

// WalkMembers follows continuation until the listing ends, the page cap is
// reached or a request fails. Reaching the cap is not an error.
func (c *Client) WalkMembers(
	ctx context.Context,
	q domain.MemberQuery,
	visit func(*domain.MemberPage) error,
) error {
	for pages := 0; ; pages++ {
		if pages >= c.maxPages {
			logger.Warn("category %s: stopped after %d continuation pages", q.Root, c.maxPages)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := c.ListMembers(ctx, q)
		if err != nil {
			return err
		}
		if err := visit(page); err != nil {
			return err
		}
		if page.Continue == "" {
			return nil
		}
		q.Continue = page.Continue
	}
}
