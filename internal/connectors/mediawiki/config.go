package mediawiki

import "time"

// Default configuration values.
const (
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPagesPerNode bounds pagination of a single category so a
	// misbehaving API cannot keep a walk alive forever.
	DefaultMaxPagesPerNode = 5000

	// MaxTitlesPerQuery is the API limit for titles= in one request.
	MaxTitlesPerQuery = 50
)

// Config holds configuration for the MediaWiki client.
type Config struct {
	// BaseURL is the api.php endpoint.
	BaseURL string

	// UserAgent identifies the tool to the API operators. Required by
	// Wikimedia policy.
	UserAgent string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RequestInterval is the minimum spacing between requests.
	// Zero disables spacing.
	RequestInterval time.Duration

	// MaxPagesPerNode caps continuation pages per category listing.
	MaxPagesPerNode int
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxPagesPerNode <= 0 {
		c.MaxPagesPerNode = DefaultMaxPagesPerNode
	}
}
