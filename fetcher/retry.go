package fetcher

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig is the declarative retry policy a provider attaches to its
// fetch cycle. The agent feeds it to the generic retry wrapper; providers
// never hand-roll retry loops.
//
// The zero value means a single attempt with no waiting. Unretryable is the
// explicit non-retryable predicate: errors it matches abort retrying and are
// returned as-is. Providers that want the standard taxonomy set it to
// IsQueryError.
type RetryConfig struct {
	// MaxAttempts bounds the total number of attempts, first try included.
	MaxAttempts uint64

	// InitialInterval and MaxInterval shape the randomized exponential
	// backoff. Zero values take the backoff library defaults.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// Unretryable reports errors that must not be retried.
	Unretryable func(error) bool
}

// Run executes op under the policy. The final error, retryable or not, is
// returned unmodified to the caller — retries exhaust, they never swallow.
func (c RetryConfig) Run(ctx context.Context, op func() error) error {
	if c.MaxAttempts <= 1 {
		return op()
	}

	expo := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		expo.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		expo.MaxInterval = c.MaxInterval
	}
	expo.MaxElapsedTime = 0

	wrapped := func() error {
		err := op()
		if err != nil && c.Unretryable != nil && c.Unretryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(expo, c.MaxAttempts-1), ctx)
	return backoff.Retry(wrapped, policy)
}
