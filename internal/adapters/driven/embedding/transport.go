// Package embedding holds what the provider adapters share: JSON calls,
// provider errors and checks on the vectors that come back.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// maxErrorBody bounds how much of a failed response is kept in an APIError.
const maxErrorBody = 512

// ErrDimensionMismatch indicates a provider returned vectors of a size other
// than the one configured for the store.
var ErrDimensionMismatch = errors.New("embedding: vector dimension mismatch")

// APIError is a non-200 answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Unwrap maps provider failures to domain.ErrTransport.
func (e *APIError) Unwrap() error {
	return domain.ErrTransport
}

// Client sends JSON requests to one provider.
type Client struct {
	HTTP     *http.Client
	Provider string

	// Header is added to every request.
	Header http.Header

	// ErrorMessage extracts a readable message from a failed response
	// body. The trimmed body is used when nil or when it returns "".
	ErrorMessage func(body []byte) string
}

// Do sends in as a JSON body (nil sends none) and decodes a 200 response
// into out (nil discards it).
func (c *Client) Do(ctx context.Context, method, url string, in, out any) error {
	body := io.Reader(http.NoBody)
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.Provider, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.Provider, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w: %w", c.Provider, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %w", c.Provider, domain.ErrDecode, err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := ""
	if c.ErrorMessage != nil {
		msg = c.ErrorMessage(data)
	}
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	return &APIError{Provider: c.Provider, StatusCode: resp.StatusCode, Message: msg}
}

// Float32 narrows a JSON-decoded vector.
func Float32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}

// CheckVectors verifies there is one vector per input and that each has
// dims components. A dims of zero skips the size check.
func CheckVectors(provider string, vectors [][]float32, inputs, dims int) error {
	if len(vectors) != inputs {
		return fmt.Errorf("%s: returned %d embeddings for %d inputs: %w",
			provider, len(vectors), inputs, domain.ErrDecode)
	}
	if dims <= 0 {
		return nil
	}
	for i, v := range vectors {
		if len(v) != dims {
			return fmt.Errorf("%w: %s input %d has %d dimensions, want %d (check embedding.dimensions)",
				ErrDimensionMismatch, provider, i, len(v), dims)
		}
	}
	return nil
}
