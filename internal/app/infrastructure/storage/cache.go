package storage

import (
	"github.com/maypok86/otter/v2"
	"time"
)

// Cache is a concurrent string-keyed cache. Writes to distinct keys never
// contend on a shared lock; a write to the same key replaces the old value.
type Cache[T any] struct {
	outer *otter.Cache[string, T]

	ttl time.Duration
}

// NewCache creates a cache. A zero ttl keeps entries until they are removed
// explicitly; a zero capacity leaves the cache unbounded.
func NewCache[T any](capacity int, ttl time.Duration) *Cache[T] {
	c := &Cache[T]{ttl: ttl}

	opts := &otter.Options[string, T]{
		InitialCapacity: 64,
	}
	if capacity > 0 {
		opts.MaximumSize = capacity
	}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[string, T](ttl)
	}

	c.outer = otter.Must(opts)
	return c
}

func (c *Cache[T]) Set(key string, val T) {
	c.outer.Set(key, val)
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.outer.GetIfPresent(key)
}

func (c *Cache[T]) ClearKey(key string) {
	c.outer.Invalidate(key)
}

func (c *Cache[T]) ClearAll() {
	c.outer.InvalidateAll()
}

// Len counts live entries. It walks the cache, so keep it off hot paths.
func (c *Cache[T]) Len() int {
	n := 0
	for range c.outer.All() {
		n++
	}
	return n
}

func (c *Cache[T]) All() map[string]T {
	out := make(map[string]T)
	for k, v := range c.outer.All() {
		out[k] = v
	}
	return out
}

func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}
