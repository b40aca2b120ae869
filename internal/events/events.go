package events

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

const (
	StateChanged     = "state.changed"
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"

	// All subscribes to every event type.
	All = "*"
)

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// New builds an event with payload encoded as JSON.
func New(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: data}, nil
}

// Decode unmarshals the payload into out.
func (e Event) Decode(out any) error {
	return json.Unmarshal(e.Payload, out)
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

type subscription struct {
	id      int64
	handler EventHandler
}

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]subscription
	mu          sync.RWMutex
	seq         atomic.Int64
	subSeq      atomic.Int64
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]subscription)}
}

// Subscribe registers a handler for a given event type and returns a func removing it.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) func() {
	id := b.subSeq.Add(1)
	b.mu.Lock()
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish notifies subscribers of the event type, then subscribers of All.
// Handlers run synchronously; their errors are joined.
func (b *EventBus) Publish(event Event) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subscribers[event.Type]...)
	if event.Type != All {
		subs = append(subs, b.subscribers[All]...)
	}
	b.mu.RUnlock()

	event.ID = b.seq.Add(1)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, s := range subs {
		if err := s.handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Channel delivers events of eventType on a buffered channel. Delivery never
// blocks the publisher: events are dropped while the buffer is full. The
// returned cancel func unsubscribes and closes the channel.
func (b *EventBus) Channel(eventType string, buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	var mu sync.Mutex
	closed := false

	unsubscribe := b.Subscribe(eventType, func(e Event) error {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return nil
		}
		select {
		case ch <- e:
		default:
		}
		return nil
	})

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
}
