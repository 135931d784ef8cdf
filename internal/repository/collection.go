// Package repository maps entity collections onto single store keys. Every
// mutation re-serializes the whole collection: the deliberate
// last-full-write-wins contract of the shared store.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"helpme/internal/store"

	"github.com/rs/zerolog"
)

// Collection holds one ordered entity collection, newest first, mirrored to
// a single store key.
type Collection[T any] struct {
	key    string
	store  store.Store
	idOf   func(T) string
	logger *zerolog.Logger

	mu    sync.RWMutex
	items []T
}

func NewCollection[T any](st store.Store, key string, idOf func(T) string, logger *zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		key:    key,
		store:  st,
		idOf:   idOf,
		logger: logger,
	}
}

// Load reads the collection from the store. An absent key, a store failure
// or a malformed value all degrade to an empty collection; Load reports
// whether a valid value was found but never fails.
func (c *Collection[T]) Load(ctx context.Context) bool {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", c.key).Msg("store read failed, starting empty")
		return false
	}
	if !found {
		return false
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn().Err(err).Str("key", c.key).Msg("malformed collection, starting empty")
		return false
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return true
}

// Add prepends the record (newest-first ordering) and persists.
func (c *Collection[T]) Add(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
	return c.persistLocked(ctx)
}

// Append adds the record at the end. The chat log is append-ordered.
func (c *Collection[T]) Append(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	return c.persistLocked(ctx)
}

// Update applies mutate to the record with the given id and persists.
// A missing id is a silent no-op reported through found=false.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T)) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.idOf(c.items[i]) != id {
			continue
		}
		mutate(&c.items[i])
		updated := c.items[i]
		return updated, true, c.persistLocked(ctx)
	}

	var zero T
	return zero, false, nil
}

// UpdateAll applies mutate to every record and persists once.
func (c *Collection[T]) UpdateAll(ctx context.Context, mutate func(*T)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		mutate(&c.items[i])
	}
	return c.persistLocked(ctx)
}

// Replace swaps the whole collection and persists.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	return c.persistLocked(ctx)
}

// Filter returns the records the predicate keeps, in collection order.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// All returns a copy of the current ordered collection.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// FindByID returns the record with the given id.
func (c *Collection[T]) FindByID(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// persistLocked writes the full collection back to the store. The in-memory
// state keeps the mutation even when the write fails; the next successful
// save carries it.
func (c *Collection[T]) persistLocked(ctx context.Context) error {
	items := c.items
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("failed to persist collection %s: %w", c.key, err)
	}
	return nil
}
