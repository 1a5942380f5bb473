package options

import (
	"sync"
	"time"
)

// Derived value cache keys.
const (
	cachePayoffs = "payoffs"
	cacheCost    = "cost"
	cachePremium = "premium"
)

type cacheEntry struct {
	value      interface{}
	computedAt time.Time
}

// derivedCache holds one TTL-stamped slot per derived property of an
// owning entity. A read either returns a value whose age is within the
// TTL or recomputes and republishes it in a single step; concurrent
// readers may at worst duplicate a computation, never observe a torn
// value. TTL zero means the value never expires.
type derivedCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newDerivedCache(now func() time.Time) *derivedCache {
	if now == nil {
		now = time.Now
	}
	return &derivedCache{
		entries: make(map[string]cacheEntry),
		now:     now,
	}
}

func (c *derivedCache) getOrCompute(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		if ttl <= 0 || c.now().Sub(entry.computedAt) <= ttl {
			c.mu.Unlock()
			return entry.value, nil
		}
	}
	c.mu.Unlock()

	// Compute outside the lock so a slow premium fetch does not block
	// reads of other properties.
	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, computedAt: c.now()}
	c.mu.Unlock()
	return value, nil
}

// invalidate removes the named entries regardless of age. With no keys
// it clears every entry.
func (c *derivedCache) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}
