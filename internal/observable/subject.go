// Package observable provides a minimal typed publish/subscribe subject used
// by the stores to notify views of state changes.
package observable

import (
	"slices"
	"sync"
)

// Subject fans a value out to every subscribed listener in subscription
// order. The zero value is ready to use.
//
// Every published value carries a sequence number assigned by the publisher
// while it still holds its own lock. A listener never receives a value older
// than one it has already been handed, so concurrent publishers cannot leave
// it with a stale last value.
type Subject[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []*listener[T]
}

type listener[T any] struct {
	id      uint64
	fn      func(T)
	last    uint64
	removed bool
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is safe.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, &listener[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// Publish calls every listener with value unless the listener has already
// been handed a value with a sequence number of seq or higher. Sequence
// numbers start at 1. Listeners run on the caller's goroutine without any
// lock held, so they may subscribe, unsubscribe or call back into the
// publisher.
func (s *Subject[T]) Publish(seq uint64, value T) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		if !s.claim(l, seq) {
			continue
		}
		l.fn(value)
	}
}

// Len reports the number of active listeners.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.listeners)
}

// claim records seq as delivered to l and reports whether l should be called.
func (s *Subject[T]) claim(l *listener[T], seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.removed || seq <= l.last {
		return false
	}
	l.last = seq
	return true
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = slices.DeleteFunc(s.listeners, func(l *listener[T]) bool {
		if l.id == id {
			l.removed = true
			return true
		}
		return false
	})
}
