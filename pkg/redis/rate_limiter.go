package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimitExceeded is returned by Allow when the current window is exhausted
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Counter is the Redis operation the limiter needs
type Counter interface {
	IncrWithExpiration(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// RateLimiterOptions represents options for rate limiting
type RateLimiterOptions struct {
	// MaxTransactionsPerMinute is the number of calls allowed per one-minute window
	MaxTransactionsPerMinute int
	// Namespace prefixes every key
	Namespace string
}

// NewRateLimiterOptions creates a new rate limiter options with default values
func NewRateLimiterOptions() *RateLimiterOptions {
	return &RateLimiterOptions{MaxTransactionsPerMinute: 60}
}

// WithMaxTransactionsPerMinute sets the maximum number of transactions per minute
func (rlo *RateLimiterOptions) WithMaxTransactionsPerMinute(max int) *RateLimiterOptions {
	rlo.MaxTransactionsPerMinute = max
	return rlo
}

// WithNamespace sets the namespace for organizing rate limiters
func (rlo *RateLimiterOptions) WithNamespace(namespace string) *RateLimiterOptions {
	rlo.Namespace = namespace
	return rlo
}

// Validate validates the rate limiter options
func (rlo *RateLimiterOptions) Validate() error {
	if rlo.MaxTransactionsPerMinute <= 0 {
		return fmt.Errorf("invalid max transactions per minute: %d, must be positive", rlo.MaxTransactionsPerMinute)
	}
	return nil
}

// RateLimiter is a fixed-window distributed counter shared by every process
// talking to the same Redis.
type RateLimiter struct {
	counter Counter
	key     string
	opts    *RateLimiterOptions
	now     func() time.Time
}

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(counter Counter, key string, opts *RateLimiterOptions) (*RateLimiter, error) {
	if opts == nil {
		opts = NewRateLimiterOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &RateLimiter{
		counter: counter,
		key:     key,
		opts:    opts,
		now:     time.Now,
	}, nil
}

// buildKey constructs the full key using Namespace::key::tpm::window format
func (rl *RateLimiter) buildKey(window int64) string {
	key := fmt.Sprintf("%s::tpm::%d", rl.key, window)
	if rl.opts.Namespace != "" {
		return rl.opts.Namespace + "::" + key
	}
	return key
}

// Allow consumes one slot of the current minute. It never waits.
func (rl *RateLimiter) Allow(ctx context.Context) error {
	window := rl.now().Unix() / 60

	count, err := rl.counter.IncrWithExpiration(ctx, rl.buildKey(window), 2*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to acquire rate limiter: %w", err)
	}

	if count > int64(rl.opts.MaxTransactionsPerMinute) {
		return fmt.Errorf("%w: %d transactions per minute", ErrRateLimitExceeded, rl.opts.MaxTransactionsPerMinute)
	}
	return nil
}
