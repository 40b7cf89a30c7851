// Package mailbox provides a single-slot handoff between a producer that
// must never block and a consumer that only cares about the latest value.
package mailbox

import "sync"

// Mailbox holds at most one pending value. Put overwrites whatever is
// waiting; the consumer is notified through Ready.
type Mailbox[T any] struct {
	mu     sync.Mutex
	val    *T
	ready  chan struct{}
	closed bool
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// Put stores v, replacing any value not yet taken. It never blocks.
// Put after Close is a no-op.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.val = &v
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Ready returns a channel that receives when a value may be waiting and is
// closed after Close. Consumers call TryTake after each receive.
func (m *Mailbox[T]) Ready() <-chan struct{} {
	return m.ready
}

// TryTake returns the pending value and clears the slot. ok is false when
// the slot is empty. It never blocks.
func (m *Mailbox[T]) TryTake() (v T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.val == nil {
		return v, false
	}
	v = *m.val
	m.val = nil
	return v, true
}

// Close stops accepting values. A value still pending stays takeable.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.ready)
}
