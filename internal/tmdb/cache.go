package tmdb

import (
	"sync"
	"time"
)

type cacheEntry struct {
	titles  []string
	expires time.Time
}

// cache memoizes title lists per request key so re-running a mode within
// one session does not refetch pages.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *cache) get(key string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.titles, true
}

func (c *cache) set(key string, titles []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		titles:  titles,
		expires: time.Now().Add(c.ttl),
	}
}
