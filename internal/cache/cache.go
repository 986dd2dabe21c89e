// Package cache provides a small in-memory memoization map, adapted from
// the teacher's internal/dedupe map backend: instead of recording presence
// only, it stores the value associated with each key so repeated fitness
// evaluations of an identical serialized pattern skip re-running the
// match sweep.
package cache

import "runtime/debug"

// Cache is a generic, non-concurrent-safe memoization map. The driver owns
// a single instance per optimize run, so no locking is required (spec.md
// §5: the driver is single-threaded and synchronous from the caller's
// view).
type Cache[V any] struct {
	storage map[string]V
	hits    int
	misses  int
}

// New returns an empty Cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{storage: map[string]V{}}
}

// Get reports the cached value for key, if any, tracking the hit/miss
// counters exposed by Stats.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.storage[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores value under key, overwriting any existing entry.
func (c *Cache[V]) Put(key string, value V) {
	c.storage[key] = value
}

// Len returns the number of distinct keys currently cached.
func (c *Cache[V]) Len() int { return len(c.storage) }

// Stats returns (hits, misses) observed so far.
func (c *Cache[V]) Stats() (hits, misses int) { return c.hits, c.misses }

// Cleanup releases the backing map and starts a fresh empty one, so the
// cache stays usable, matching the teacher's own Cleanup:
// debug.FreeOSMemory forces the runtime to hand the freed map back to the
// OS immediately instead of in its usual deferred chunks.
func (c *Cache[V]) Cleanup() {
	c.storage = map[string]V{}
	debug.FreeOSMemory()
}
