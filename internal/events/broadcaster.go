package events

import "sync"

// Subscriber receives published events.
type Subscriber chan Event

// Broadcaster manages event subscribers and recent-event history. The
// zero value is not usable; create one with NewBroadcaster.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]struct{}
	buffer      *ringBuffer
}

// NewBroadcaster returns a broadcaster keeping the given number of recent
// events.
func NewBroadcaster(history int) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[Subscriber]struct{}),
		buffer:      newRingBuffer(history),
	}
}

// Subscribe adds a subscriber and returns its channel. The channel is
// buffered so publishers never block on it.
func (b *Broadcaster) Subscribe() Subscriber {
	ch := make(Subscriber, 64)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()
	close(sub)
}

// Publish validates the event name, records the event, and delivers it to
// every subscriber. If a subscriber's buffer is full the event is dropped
// for that subscriber only.
func (b *Broadcaster) Publish(e Event) error {
	if err := Validate(e.Name); err != nil {
		return err
	}

	b.buffer.add(e)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subscribers {
		select {
		case sub <- e:
		default:
			// Buffer full, drop for this slow subscriber.
		}
	}
	return nil
}

// SubscriberCount returns the current number of subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Recent returns up to n of the most recent events, oldest first. n <= 0
// returns everything retained.
func (b *Broadcaster) Recent(n int) []Event {
	all := b.buffer.snapshot()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}
