package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxAttempts uint64, unretryable func(error) bool) RetryConfig {
	return RetryConfig{
		MaxAttempts:     maxAttempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Unretryable:     unretryable,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := fastPolicy(10, IsQueryError).Run(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsAtMaxAttemptsAndReturnsLastError(t *testing.T) {
	attempts := 0
	lastErr := errors.New("still down")
	err := fastPolicy(4, IsQueryError).Run(context.Background(), func() error {
		attempts++
		return lastErr
	})

	assert.Equal(t, 4, attempts)
	assert.ErrorIs(t, err, lastErr)
}

func TestRetryDoesNotRetryQueryErrors(t *testing.T) {
	attempts := 0
	queryErr := &QueryError{Err: errors.New("no such search base")}
	err := fastPolicy(10, IsQueryError).Run(context.Background(), func() error {
		attempts++
		return queryErr
	})

	assert.Equal(t, 1, attempts)
	assert.True(t, IsQueryError(err))
}

func TestRetryZeroValueRunsOnce(t *testing.T) {
	attempts := 0
	boom := errors.New("boom")
	err := RetryConfig{}.Run(context.Background(), func() error {
		attempts++
		return boom
	})

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, boom)
}
