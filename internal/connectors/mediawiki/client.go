package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.CategorySource = (*Client)(nil)
	_ driven.ContentSource  = (*Client)(nil)
)

// maxErrorBody bounds how much of a failed response is kept in an APIError.
const maxErrorBody = 512

// Client talks to a MediaWiki api.php endpoint.
type Client struct {
	http        *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *RateLimiter
	maxPages    int
}

// NewClient creates a client from cfg, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	cfg.setDefaults()
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		rateLimiter: NewRateLimiter(cfg.RequestInterval),
		maxPages:    cfg.MaxPagesPerNode,
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiResponse is the envelope shared by all query responses.
type apiResponse struct {
	Continue map[string]any `json:"continue"`
	Query    *struct {
		Pages pageList `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// query performs one GET request and decodes the envelope.
func (c *Client) query(ctx context.Context, params url.Values) (*apiResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        reqURL,
		}
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if out.Error != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       out.Error.Code,
			Message:    out.Error.Info,
			URL:        reqURL,
		}
	}
	return &out, nil
}

// baseParams returns the parameters every query carries.
func baseParams() url.Values {
	return url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
	}
}
