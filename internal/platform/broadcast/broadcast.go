// Package broadcast fans full snapshots out to subscribers.
package broadcast

import (
	"slices"
	"sync"
)

type Hub[T any] struct {
	mu   sync.Mutex
	seq  int
	subs map[int]func(T)
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (h *Hub[T]) Subscribe(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = map[int]func(T){}
	}
	h.seq++
	id := h.seq
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish calls every subscriber synchronously, in subscription order.
// Callers must not hold locks that a subscriber may need.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	fns := make(map[int]func(T), len(h.subs))
	for id, fn := range h.subs {
		fns[id] = fn
	}
	h.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		fns[id](v)
	}
}

func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
