// Package viewmodel keeps disposable in-memory copies of store collections
// that refresh themselves whenever the store reports a change.
package viewmodel

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"ghuman-groceries/models"
	"ghuman-groceries/store"
)

// Loader fetches a whole collection
type Loader[T any] func(ctx context.Context) ([]T, error)

// Subscriber is the part of the store a collection listens to
type Subscriber interface {
	Subscribe(fn func(store.Change), kinds ...models.Entity) func()
}

// Collection is a refresh-on-change copy of one store collection
type Collection[T any] struct {
	kind models.Entity
	load Loader[T]

	mu      sync.RWMutex
	items   []T
	lastErr error

	unsubscribe func()
}

// NewCollection loads the collection once and reloads it on every change
// that touches kind.
func NewCollection[T any](ctx context.Context, sub Subscriber, kind models.Entity, load Loader[T]) (*Collection[T], error) {
	c := &Collection[T]{kind: kind, load: load}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.unsubscribe = sub.Subscribe(func(store.Change) {
		if err := c.Refresh(context.Background()); err != nil {
			log.Warnf("⚠️  ViewModel: failed to refresh %s: %v", kind, err)
		}
	}, kind)
	return c, nil
}

// Refresh re-fetches the collection. On failure the previous copy is kept.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	items, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return err
	}
	c.items = items
	return nil
}

// Items returns a copy of the current collection
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items currently held
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Err returns the error of the most recent refresh, if any
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Close stops listening for changes
func (c *Collection[T]) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}
