package analytics

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Debouncer delays fn until Call has not been invoked for the configured
// delay. Only the most recent schedule fires.
type Debouncer struct {
	clock quartz.Clock
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *quartz.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a Debouncer that runs fn on clock after delay of
// inactivity.
func NewDebouncer(clock quartz.Clock, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Call (re)schedules fn. It is a no-op after Stop.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop("Debouncer", "stop")
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) }, "Debouncer", "call")
}

// fire runs fn unless a newer Call or Stop superseded this schedule while
// the timer was already firing.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending invocation; later calls to Call are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop("Debouncer", "stop")
		d.timer = nil
	}
}
