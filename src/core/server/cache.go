package server

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// responseCache is a TTL cache for read-endpoint results. It is
// invalidated wholesale on every write, so a cached response never
// outlives the catalog state it was computed from.
type responseCache struct {
	mu      sync.RWMutex
	items   map[string]*cacheItem
	ttl     time.Duration
	enabled bool
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

func newResponseCache(ttl time.Duration, enabled bool) *responseCache {
	if ttl <= 0 {
		enabled = false
	}
	return &responseCache{
		items:   make(map[string]*cacheItem),
		ttl:     ttl,
		enabled: enabled,
	}
}

// key builds a cache key from a prefix and request parameters.
func (c *responseCache) key(prefix string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s:%x", prefix, hash)
}

// get retrieves a non-expired value from the cache.
func (c *responseCache) get(key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// set stores a value in the cache.
func (c *responseCache) set(key string, value interface{}) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// invalidate clears the entire cache.
func (c *responseCache) invalidate() {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheItem)
}
