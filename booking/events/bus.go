package events

import (
	"errors"
	"sync"
	"time"

	"github.com/wricardo/concert-booking/booking/engine"
)

// Seat event types
const (
	EventHeld         = "held"
	EventBooked       = "booked"
	EventReleased     = "released"
	EventAutoReleased = "auto_released"
)

var ErrUnknownEventType = errors.New("unknown seat event type")

// SeatEvent describes one seat state change.
type SeatEvent struct {
	Type      string            `json:"type"`
	SeatID    string            `json:"seat_id"`
	UserID    string            `json:"user_id"`
	Status    engine.SeatStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	ExpiresAt int64             `json:"expires_at,omitempty"`
	Seat      *engine.Seat      `json:"seat,omitempty"` // full seat for snapshot-style consumers
}

// Handler consumes seat events. Handlers must not block; slow consumers
// should hand off to their own queue.
type Handler func(SeatEvent)

// Bus distributes seat events to subscribed handlers.
type Bus interface {
	Publish(event SeatEvent) error
	Subscribe(handler Handler) (unsubscribe func(), err error)
	Close()
}

// MemoryBus is an in-process Bus. Publish dispatches synchronously in
// subscription order.
type MemoryBus struct {
	handlers map[int]Handler
	nextID   int
	closed   bool
	mu       sync.RWMutex
}

// NewMemoryBus creates an in-process event bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[int]Handler)}
}

// Publish delivers the event to every subscribed handler.
func (b *MemoryBus) Publish(event SeatEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errors.New("event bus is closed")
	}
	for _, handler := range b.handlers {
		handler(event)
	}
	return nil
}

// Subscribe registers a handler and returns its unsubscribe func.
func (b *MemoryBus) Subscribe(handler Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.New("event bus is closed")
	}

	id := b.nextID
	b.nextID++
	b.handlers[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}, nil
}

// Close drops all handlers and refuses further publishes.
func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[int]Handler)
}
