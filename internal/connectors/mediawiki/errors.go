package mediawiki

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// MediaWiki-specific errors.
var (
	// ErrInvalidContinuation indicates a continuation token could not be parsed.
	ErrInvalidContinuation = errors.New("mediawiki: invalid continuation token")

	// ErrTooManyTitles indicates a content batch exceeded MaxTitlesPerQuery.
	ErrTooManyTitles = errors.New("mediawiki: too many titles in one query")
)

// APIError represents a failed API call: either a non-200 HTTP status or an
// error object in the response body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mediawiki: API error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("mediawiki: HTTP %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap maps HTTP failures to domain.ErrTransport and error bodies to
// domain.ErrDecode.
func (e *APIError) Unwrap() error {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return domain.ErrTransport
	}
	return domain.ErrDecode
}

// IsTransport checks if the error is a network or HTTP failure.
func IsTransport(err error) bool {
	return errors.Is(err, domain.ErrTransport)
}

// IsDecode checks if the error is a malformed or error-carrying response.
func IsDecode(err error) bool {
	return errors.Is(err, domain.ErrDecode)
}

// IsRateLimited checks if the API answered 429 Too Many Requests.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
