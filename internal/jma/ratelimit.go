package jma

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kumoribot/jma-weather/internal/domain"
)

// slidingWindow grants up to limit requests per trailing window. Grant
// timestamps older than the window are pruned on every call.
type slidingWindow struct {
	limit  int
	window time.Duration
	clock  clockwork.Clock

	mu     sync.Mutex
	grants []time.Time
}

func newSlidingWindow(limit int, window time.Duration, clock clockwork.Clock) *slidingWindow {
	return &slidingWindow{
		limit:  limit,
		window: window,
		clock:  clock,
	}
}

// allow records one grant, or fails with a RateLimitError carrying the time
// until the oldest in-window grant falls out.
func (w *slidingWindow) allow() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	cutoff := now.Add(-w.window)

	kept := w.grants[:0]
	for _, t := range w.grants {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.grants = kept

	if len(w.grants) >= w.limit {
		return &domain.RateLimitError{RetryAfter: w.grants[0].Sub(cutoff)}
	}
	w.grants = append(w.grants, now)
	return nil
}
