// Package observe holds the subscriber list shared by the state stores.
package observe

import "sync"

// List is a set of callbacks notified with each new snapshot.
// The zero value is ready to use.
type List[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)
	order  []int
}

// Subscribe registers fn and returns a function that removes it again.
func (l *List[T]) Subscribe(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.subs == nil {
		l.subs = make(map[int]func(T))
	}
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.order = append(l.order, id)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

// Publish calls every subscriber in registration order. Callers must not hold
// their own store lock, subscribers are free to read the store back.
func (l *List[T]) Publish(v T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.subs[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
