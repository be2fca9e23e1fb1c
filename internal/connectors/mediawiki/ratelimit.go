package mediawiki

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a fixed minimum spacing between requests.
// Burst is one, so the limiter never lets requests through faster than
// the configured interval and never adapts to server feedback.
type RateLimiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewRateLimiter creates a limiter. A non-positive interval disables spacing.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimiter{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
	}
}

// Wait blocks until the next request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Interval returns the configured spacing.
func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}
