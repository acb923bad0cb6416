package events

import (
	"sync"
	"sync/atomic"

	"auction-engine/utils"
)

// Publisher is the fan-out point the engine components emit through.
type Publisher interface {
	Publish(event Event)
}

// subscription is one subscriber channel and the event types it wants.
type subscription struct {
	ch    chan Event
	types map[Type]struct{} // empty means all types
}

// Bus is an in-process publish/subscribe bus with buffered per-subscriber
// channels. Delivery is non-blocking: a subscriber that falls behind loses
// events rather than stalling the engine, and the drop is counted.
type Bus struct {
	mu      sync.RWMutex
	subs    []*subscription
	dropped int64
	closed  bool
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{}
}

const subscriberBuffer = 64

// Subscribe registers interest in the given event types. With no types given,
// the subscriber receives every event. The returned channel is closed by Close.
func (b *Bus) Subscribe(types ...Type) <-chan Event {
	sub := &subscription{
		ch:    make(chan Event, subscriberBuffer),
		types: make(map[Type]struct{}, len(types)),
	}
	for _, t := range types {
		sub.types[t] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	return sub.ch
}

// Publish fans the event out to all interested subscribers without blocking.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if len(sub.types) > 0 {
			if _, ok := sub.types[event.EventType()]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- event:
		default:
			atomic.AddInt64(&b.dropped, 1)
			utils.Warn("event bus: subscriber buffer full, event dropped", map[string]any{
				"event_type": string(event.EventType()),
			})
		}
	}
}

// Dropped returns how many events were discarded due to full subscriber buffers.
func (b *Bus) Dropped() int64 {
	return atomic.LoadInt64(&b.dropped)
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}
