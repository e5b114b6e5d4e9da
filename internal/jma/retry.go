package jma

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kumoribot/jma-weather/internal/domain"
)

// retryPolicy holds the upstream retry budget: maxRetries retries after the
// first attempt, delays of min(baseDelay * factor^n, maxDelay).
type retryPolicy struct {
	maxRetries uint64
	baseDelay  time.Duration
	factor     float64
	maxDelay   time.Duration
}

// hintedBackOff raises each delay to at least the Retry-After hint carried
// by the last failure, when there is one.
type hintedBackOff struct {
	inner   backoff.BackOff
	lastErr *error
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	next := b.inner.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if hint := domain.RetryAfterHint(*b.lastErr); hint > next {
		next = hint
	}
	return next
}

func (b *hintedBackOff) Reset() {
	b.inner.Reset()
}

// retryFetch runs op under the retry policy. Failures that are not
// Retryable stop immediately; the rest are retried with exponential
// backoff, a warning logged per retry.
func (c *Client) retryFetch(ctx context.Context, endpoint string, op func() ([]byte, error)) ([]byte, error) {
	policy := &backoff.ExponentialBackOff{
		InitialInterval:     c.retry.baseDelay,
		RandomizationFactor: 0,
		Multiplier:          c.retry.factor,
		MaxInterval:         c.retry.maxDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}

	var lastErr error
	operation := func() ([]byte, error) {
		body, err := op()
		if err != nil {
			lastErr = err
			if !domain.Retryable(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return body, nil
	}

	hinted := &hintedBackOff{inner: policy, lastErr: &lastErr}
	wrapped := backoff.WithContext(backoff.WithMaxRetries(hinted, c.retry.maxRetries), ctx)

	attempt := 0
	notify := func(err error, delay time.Duration) {
		attempt++
		c.metrics.UpstreamRetries.Inc()
		c.logger.Warn("retrying upstream request",
			"endpoint", endpoint,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}

	return backoff.RetryNotifyWithTimerAndData(operation, wrapped, notify, c.timer)
}
