package fetcher

import (
	"errors"
	"fmt"
)

// ValidationError reports an event or configuration payload whose shape does
// not match what the addressed provider expects. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fetch event validation failed: %s", e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// QueryError marks fetch failures that retrying cannot fix: a malformed
// search filter, a nonexistent search base, a SQL syntax error. Providers
// classify their library errors into this type; the default retry policy
// excludes it.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsQueryError reports whether err is (or wraps) a QueryError. It is the
// default non-retryable predicate in RetryConfig.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
