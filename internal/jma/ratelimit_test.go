package jma

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumoribot/jma-weather/internal/domain"
)

func TestSlidingWindow_AllowsUpToLimit(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	w := newSlidingWindow(2, time.Minute, clk)

	require.NoError(t, w.allow())
	require.NoError(t, w.allow())

	err := w.allow()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))

	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, time.Minute, rle.RetryAfter)
}

func TestSlidingWindow_SlidesWithClock(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	w := newSlidingWindow(2, time.Minute, clk)

	require.NoError(t, w.allow())
	clk.Advance(30 * time.Second)
	require.NoError(t, w.allow())

	clk.Advance(10 * time.Second)
	err := w.allow()
	require.Error(t, err)

	// The oldest grant is 40s old, so a slot frees in 20s.
	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 20*time.Second, rle.RetryAfter)

	clk.Advance(21 * time.Second)
	assert.NoError(t, w.allow())
}

func TestSlidingWindow_GrantAgesOutExactlyAtWindow(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	w := newSlidingWindow(1, time.Minute, clk)

	require.NoError(t, w.allow())
	require.Error(t, w.allow())

	clk.Advance(time.Minute)
	assert.NoError(t, w.allow())
}
