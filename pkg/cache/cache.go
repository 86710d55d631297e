// Package cache provides a process-local key/value store with per-entry
// expiration. Expired entries are evicted lazily on lookup; there is no
// background sweeper and no size bound.
package cache

import (
	"sync"
	"time"
)

// Entry is a stored value with its lifetime. Callers always receive a copy;
// the cache never hands out references to its internal state.
type Entry struct {
	Value     interface{}
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TTLCache is safe for concurrent use. A single mutex guards the backing
// map; all operations are O(1) and non-blocking, so the coarse lock is
// fine.
type TTLCache struct {
	mu  sync.Mutex
	m   map[string]Entry
	now func() time.Time
}

// New creates an empty cache.
func New() *TTLCache {
	return &TTLCache{
		m:   make(map[string]Entry),
		now: time.Now,
	}
}

// Get returns the value for key, or ok=false if the key is absent or
// expired. An expired entry is deleted on the spot.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.ExpiresAt) {
		delete(c.m, key)
		return nil, false
	}
	return e.Value, true
}

// Set stores value under key, overwriting any previous entry. A ttl <= 0 is
// accepted but produces an entry that is already expired for readers.
func (c *TTLCache) Set(key string, value interface{}, ttl time.Duration) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := Entry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.m[key] = e
	return e
}

// Delete removes key unconditionally.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]Entry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
