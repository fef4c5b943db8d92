package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dailydotdev/analytics-go/adapters"
)

// Queue accumulates events and ships them to the collector in debounced
// batches. Events pushed while the queue is disabled are held until it is
// enabled.
type Queue struct {
	config        QueueConfig
	buffer        *Buffer
	httpAdapter   HTTPAdapter
	beaconAdapter BeaconAdapter
	loggerAdapter LoggerAdapter
	debouncer     *Debouncer

	mu      sync.Mutex
	enabled bool
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewQueue creates a disabled queue. httpAdapter and beaconAdapter are
// required; a nil logger logs warnings and errors to stderr.
func NewQueue(config QueueConfig, httpAdapter HTTPAdapter, beaconAdapter BeaconAdapter, logger LoggerAdapter) *Queue {
	config.setDefaults()
	if logger == nil {
		logger = adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		config:        config,
		buffer:        NewBuffer(),
		httpAdapter:   httpAdapter,
		beaconAdapter: beaconAdapter,
		loggerAdapter: logger,
		ctx:           ctx,
		cancel:        cancel,
	}
	q.debouncer = NewDebouncer(config.Clock, config.DebounceDelay, q.flush)
	return q
}

// Push appends events in order and, if enabled, schedules a flush.
func (q *Queue) Push(events ...Event) {
	if len(events) == 0 {
		return
	}
	q.buffer.Push(events...)
	if q.Enabled() {
		q.debouncer.Call()
	}
}

// SetEnabled opens or closes the gate. Enabling a queue that holds events
// schedules a flush.
func (q *Queue) SetEnabled(enabled bool) {
	q.mu.Lock()
	q.enabled = enabled
	q.mu.Unlock()

	if enabled && q.buffer.Len() > 0 {
		q.debouncer.Call()
	}
}

func (q *Queue) Enabled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enabled
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return q.buffer.Len()
}

// FlushNow flushes without waiting for the debounce delay.
func (q *Queue) FlushNow() {
	q.flush()
}

// flush takes the whole buffer and sends it as one batch in the background.
// Events pushed after the swap wait for the next flush.
func (q *Queue) flush() {
	q.mu.Lock()
	if !q.enabled || q.closed {
		q.mu.Unlock()
		return
	}
	events := q.buffer.Take()
	if len(events) == 0 {
		q.mu.Unlock()
		return
	}
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		q.send(events)
	}()
}

func (q *Queue) send(events []Event) {
	q.loggerAdapter.Debug("Sending batch of %d events", len(events))

	attempt := 0
	operation := func() error {
		attempt++
		q.loggerAdapter.Debug("Sending HTTP request, attempt %d/%d", attempt, q.config.MaxAttempts)

		resp, err := q.httpAdapter.Send(q.ctx, q.config.Endpoint, events, q.config.Headers)
		if err != nil {
			return err
		}
		if resp.Status >= 400 && resp.Status < 500 {
			return backoff.Permanent(&HTTPError{Status: resp.Status})
		}
		if resp.Status < 200 || resp.Status >= 300 {
			return &HTTPError{Status: resp.Status}
		}
		return nil
	}
	notify := func(err error, next time.Duration) {
		q.loggerAdapter.Warn("Batch send failed (attempt %d/%d), retrying in %v: %v", attempt, q.config.MaxAttempts, next, err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(q.config.NewBackOff(), uint64(q.config.MaxAttempts-1)),
		q.ctx,
	)
	err := backoff.RetryNotifyWithTimer(operation, policy, notify, newClockTimer(q.config.Clock))
	if err == nil {
		q.loggerAdapter.Debug("Successfully sent batch of %d events", len(events))
		return
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status >= 400 && httpErr.Status < 500 {
		q.loggerAdapter.Warn("%d client error, dropping %d events", httpErr.Status, len(events))
		return
	}
	q.loggerAdapter.Error("Dropping batch of %d events after %d attempts: %v", len(events), attempt, err)
}

// SendBeacon hands any buffered events to the beacon transport and returns
// immediately. It ignores the enabled flag; it is meant for teardown.
func (q *Queue) SendBeacon() bool {
	events := q.buffer.Take()
	if len(events) == 0 {
		return false
	}
	if !q.beaconAdapter.SendBeacon(q.config.Endpoint, events) {
		q.loggerAdapter.Warn("Beacon rejected, dropping %d events", len(events))
		return false
	}
	q.loggerAdapter.Debug("Beacon queued with %d events", len(events))
	return true
}

// Close stops the debouncer and waits for in-flight batches. If ctx ends
// first, the batches still sending or waiting on a retry are abandoned and
// ctx.Err() is returned. Buffered events are left in place for SendBeacon.
func (q *Queue) Close(ctx context.Context) error {
	q.debouncer.Stop()
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

// Wait blocks until all batches sent so far have finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}
