package notify

import "context"

// Bus is a lightweight in-process pub-sub dispatcher backed by a buffered
// channel. Delivery is best-effort: when the buffer is full the event is
// dropped rather than blocking the action that raised it.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	return &Bus{ch: make(chan Event, buffer)}
}

// Dispatch enqueues the event without blocking. Implements Dispatcher.
func (b *Bus) Dispatch(ctx context.Context, ev Event) {
	select {
	case b.ch <- ev:
	default:
	}
}

// Events returns a read-only channel for consumers.
func (b *Bus) Events() <-chan Event {
	return b.ch
}
