package models

import "sync"

// SeriesCache maps a user identifier to the raw HRV payload last
// returned by the provider. Last-write-wins, no TTL, no size bound —
// the user set is small and fixed by configuration.
type SeriesCache struct {
	mu     sync.RWMutex
	series map[string][]byte
}

func NewSeriesCache() *SeriesCache {
	return &SeriesCache{
		series: make(map[string][]byte),
	}
}

func (c *SeriesCache) Get(user string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	payload, ok := c.series[user]
	return payload, ok
}

func (c *SeriesCache) Put(user string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series[user] = payload
}

func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.series)
}

// Snapshot returns a copy of the full mapping for persistence.
func (c *SeriesCache) Snapshot() map[string][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]byte, len(c.series))
	for u, p := range c.series {
		out[u] = p
	}
	return out
}

// PutAll merges a restored mapping into the cache.
func (c *SeriesCache) PutAll(series map[string][]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for u, p := range series {
		c.series[u] = p
	}
}
