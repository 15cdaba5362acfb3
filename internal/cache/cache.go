// Package cache provides the in-memory read-through cache that sits in
// front of every upstream provider client. Entries are keyed by provider
// and coordinate; freshness is judged per read against the caller's TTL,
// so the same entry can satisfy a 5-minute tide lookup and miss a
// 1-minute one.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is a thread-safe TTL cache. Stale entries are shadowed by the next
// Set rather than actively purged; the entry count is bounded by the fixed
// provider and beach lists, so a janitor goroutine buys nothing.
type Cache[T any] struct {
	clock clockwork.Clock

	mu      sync.RWMutex
	entries map[string]entry[T]
}

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// New creates an empty cache reading time from the given clock.
func New[T any](clock clockwork.Clock) *Cache[T] {
	return &Cache[T]{
		clock:   clock,
		entries: make(map[string]entry[T]),
	}
}

// Key builds the canonical cache key for a provider call at a coordinate.
// Four decimal places (~11m) keeps nearby lookups for the same beach on
// one entry.
func Key(source string, lat, lon float64) string {
	return fmt.Sprintf("%s:%.4f,%.4f", source, lat, lon)
}

// Get returns the cached value if it is strictly younger than maxAge.
// An entry exactly maxAge old is already a miss; it stays in the map
// until the next Set overwrites it.
func (c *Cache[T]) Get(key string, maxAge time.Duration) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.clock.Since(e.storedAt) >= maxAge {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value, resetting its age.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{value: value, storedAt: c.clock.Now()}
}

// Len reports the number of live plus shadowed entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
