// ABOUTME: Typed event bus delivering conversation events to decoupled subscribers
// ABOUTME: Ordered synchronous delivery with optional filters; a panicking handler is isolated and logged

package eventbus

import (
	"slices"
	"sync"

	"github.com/mauromedda/pi-offline-go/internal/log"
)

// Handler is a callback function for events.
type Handler[T any] func(T)

type subscription[T any] struct {
	id     int
	filter func(T) bool
	fn     Handler[T]
}

// Bus is a typed event bus that delivers events to registered handlers in
// subscription order.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []subscription[T]
	nextID int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an unsubscribe function.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	return b.SubscribeWhere(nil, handler)
}

// SubscribeWhere registers a handler that only sees events accepted by filter.
// A nil filter accepts everything. The returned function is idempotent.
func (b *Bus[T]) SubscribeWhere(filter func(T) bool, handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription[T]{id: id, filter: filter, fn: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		b.subs = slices.DeleteFunc(b.subs, func(s subscription[T]) bool { return s.id == id })
		b.mu.Unlock()
	}
}

// Publish sends an event to all matching handlers synchronously and returns
// how many handlers ran to completion.
func (b *Bus[T]) Publish(event T) int {
	b.mu.RLock()
	snapshot := slices.Clone(b.subs)
	b.mu.RUnlock()

	delivered := 0
	for _, s := range snapshot {
		if s.filter != nil && !s.filter(event) {
			continue
		}
		if deliver(s.fn, event) {
			delivered++
		}
	}
	return delivered
}

func deliver[T any](fn Handler[T], event T) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panicked: %v", r)
			ok = false
		}
	}()
	fn(event)
	return true
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
