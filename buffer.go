package analytics

import "sync"

// Buffer is a thread-safe, insertion-ordered sequence of events.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

// NewBuffer creates and returns a new empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Push appends events to the end of the buffer, keeping their order.
func (b *Buffer) Push(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
}

// Take returns every buffered event and leaves the buffer empty. The
// returned slice is owned by the caller; later pushes never touch it.
func (b *Buffer) Take() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Snapshot returns a copy of the buffered events, preserving order. It is
// for inspection only; flushing always goes through Take.
func (b *Buffer) Snapshot() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := make([]Event, len(b.events))
	copy(events, b.events)
	return events
}
