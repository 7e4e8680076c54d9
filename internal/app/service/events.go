package service

import (
	"sync"
	"time"

	"github.com/ghain/storefront-backend/pkg/logger"
)

// ChangeEvent announces that a storage slot of one visitor was rewritten.
// Origin identifies the tab that caused the change so other tabs can be told
// without echoing back to the writer.
type ChangeEvent struct {
	Session string    `json:"session"`
	Key     string    `json:"key"`
	Origin  string    `json:"origin,omitempty"`
	Count   int       `json:"count"`
	At      time.Time `json:"at"`
}

// Subscriber reacts to storage changes. Implementations must not block.
type Subscriber interface {
	OnStorageChange(event ChangeEvent)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(event ChangeEvent)

func (f SubscriberFunc) OnStorageChange(event ChangeEvent) { f(event) }

// Notifier is what stores publish to.
type Notifier interface {
	Publish(event ChangeEvent)
}

// EventBus fans change events out to its subscribers in subscription order.
type EventBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Subscriber
	order  []int
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]Subscriber)}
}

// Subscribe registers s and returns a function that removes it again.
func (b *EventBus) Subscribe(s Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *EventBus) Publish(event ChangeEvent) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.order))
	for _, id := range b.order {
		subs = append(subs, b.subs[id])
	}
	b.mu.RUnlock()

	logger.Debug("Publishing storage change", map[string]interface{}{
		"session":     event.Session,
		"key":         event.Key,
		"count":       event.Count,
		"subscribers": len(subs),
	})
	for _, s := range subs {
		s.OnStorageChange(event)
	}
}
