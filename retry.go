package analytics

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/quartz"
)

// clockTimer lets backoff wait on a quartz clock so retries follow mocked
// time in tests.
type clockTimer struct {
	clock quartz.Clock
	timer *quartz.Timer
	ready chan time.Time
}

var _ backoff.Timer = (*clockTimer)(nil)

func newClockTimer(clock quartz.Clock) *clockTimer {
	return &clockTimer{clock: clock}
}

func (t *clockTimer) Start(d time.Duration) {
	if d <= 0 {
		// Fire at once without scheduling anything on the clock.
		t.ready = make(chan time.Time, 1)
		t.ready <- t.clock.Now("Queue", "retry")
		return
	}
	t.ready = nil
	if t.timer == nil {
		t.timer = t.clock.NewTimer(d, "Queue", "retry")
		return
	}
	t.timer.Reset(d, "Queue", "retry")
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop("Queue", "retry")
	}
}

func (t *clockTimer) C() <-chan time.Time {
	if t.ready != nil {
		return t.ready
	}
	return t.timer.C
}
