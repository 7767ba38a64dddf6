package events

import (
	"sync"

	"httpdctl/pkg/logging"
)

// Bus fans events out to subscribers. Publishing never blocks: a
// subscriber whose channel is full misses the event, which is acceptable
// because the signals carried here are level-triggered and will re-fire.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel receiving published events.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers the event to all subscribers without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subscribers := make([]chan Event, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, ch := range subscribers {
		select {
		case ch <- ev:
		default:
			logging.Debug("Events", "Subscriber blocked, skipping %s event %s", ev.Kind, ev.ID)
		}
	}
}
