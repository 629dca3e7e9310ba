package cache

import (
	"slices"
	"sync"

	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

// ParsedEvent is published once for every fresh parse.
type ParsedEvent struct {
	Document *mdast.Document
	Path     string
	Snapshot textbuf.ID
}

// Observer receives parse notifications. Observers may be called from any
// goroutine and decide for themselves whether an event is relevant, e.g. by
// comparing Path or Snapshot.
type Observer func(ParsedEvent)

// Bus is a publish/subscribe registry for ParsedEvents. The component that
// composes the system owns the bus and hands it to the cache.
// A Bus is safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	observers []subscription
}

type subscription struct {
	id int
	fn Observer
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (b *Bus) Subscribe(fn Observer) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.observers = append(b.observers, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.observers = slices.DeleteFunc(b.observers, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Publish delivers ev to every observer registered at the time of the call,
// in subscription order. Observers run on the caller's goroutine without
// any bus lock held, so they may subscribe or unsubscribe.
func (b *Bus) Publish(ev ParsedEvent) {
	b.mu.RLock()
	observers := slices.Clone(b.observers)
	b.mu.RUnlock()

	for _, s := range observers {
		s.fn(ev)
	}
}

// Len returns the number of registered observers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.observers)
}
