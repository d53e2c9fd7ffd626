package store

import (
	"sync"
	"time"

	"ghuman-groceries/models"
)

// Change is published after a mutation has been persisted
type Change struct {
	Entities []models.Entity
	At       time.Time
}

// Touches reports whether the change affected the given entity
func (c Change) Touches(kind models.Entity) bool {
	for _, e := range c.Entities {
		if e == kind {
			return true
		}
	}
	return false
}

type subscriber struct {
	id    uint64
	fn    func(Change)
	kinds []models.Entity
}

func (s subscriber) wants(c Change) bool {
	if len(s.kinds) == 0 {
		return true
	}
	for _, k := range s.kinds {
		if c.Touches(k) {
			return true
		}
	}
	return false
}

// hub fans changes out to subscribers. Callbacks run synchronously on the
// committing goroutine, after the hub lock is released.
type hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber
}

func (h *hub) subscribe(fn func(Change), kinds ...models.Entity) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, fn: fn, kinds: kinds})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (h *hub) publish(c Change) {
	h.mu.Lock()
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		if s.wants(c) {
			s.fn(c)
		}
	}
}
