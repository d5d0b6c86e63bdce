package secrets

import (
	"sync"
	"time"
)

// CacheConfig configures the manager's value cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	MaxSize int
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// Cache holds resolved secret values for a bounded time. When full, the
// entry closest to expiry is evicted.
type Cache struct {
	config  CacheConfig
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates a cache. A disabled cache, or one with a non-positive
// TTL or size, never stores anything.
func NewCache(config CacheConfig) *Cache {
	return &Cache{
		config:  config,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) active() bool {
	return c.config.Enabled && c.config.TTL > 0 && c.config.MaxSize > 0
}

// Get returns a live cached value.
func (c *Cache) Get(key string) (string, bool) {
	if !c.active() {
		return "", false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Set stores value under key for the configured TTL.
func (c *Cache) Set(key, value string) {
	if !c.active() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.config.MaxSize {
		c.evictLocked(now)
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: now.Add(c.config.TTL)}
}

// evictLocked drops expired entries, or the soonest-expiring one if none
// have expired.
func (c *Cache) evictLocked(now time.Time) {
	var (
		oldest    string
		oldestExp time.Time
		removed   bool
	)
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed = true
			continue
		}
		if oldest == "" || e.expiresAt.Before(oldestExp) {
			oldest, oldestExp = k, e.expiresAt
		}
	}
	if !removed && oldest != "" {
		delete(c.entries, oldest)
	}
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Size returns the number of stored entries, expired ones included.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
