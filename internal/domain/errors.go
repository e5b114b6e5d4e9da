package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors classifying every failure the engine surfaces. Call sites
// wrap these with fmt.Errorf("...: %w", ...) to add context; callers branch
// with errors.Is.
var (
	// ErrInvalidAreaCode marks malformed caller input, rejected before any
	// upstream call.
	ErrInvalidAreaCode = errors.New("invalid area code")
	// ErrNotFound marks an upstream 404 or a query with no matching area.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited marks a local or upstream rate-limit refusal.
	ErrRateLimited = errors.New("rate limited")
	// ErrServer marks an upstream 5xx.
	ErrServer = errors.New("upstream server error")
	// ErrTimeout marks a request that exceeded its deadline.
	ErrTimeout = errors.New("request timeout")
	// ErrNetwork marks a transport failure other than a timeout.
	ErrNetwork = errors.New("network failure")
	// ErrParse marks a payload whose top-level shape could not be decoded.
	ErrParse = errors.New("malformed payload")
	// ErrUpstream marks any other unexpected upstream response.
	ErrUpstream = errors.New("unexpected upstream response")
)

// RateLimitError is a rate-limit refusal carrying how long the caller should
// wait before the next attempt. RetryAfter is zero when unknown.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// Is matches ErrRateLimited so errors.Is works without unwrapping to the
// concrete type.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// Retryable reports whether err belongs to a transient class worth retrying:
// rate limits, server errors, timeouts, and network failures.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServer) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrNetwork)
}

// RetryAfterHint extracts the retry-after hint from a rate-limit error,
// zero when err carries none.
func RetryAfterHint(err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}
