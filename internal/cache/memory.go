package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      SessionData
	expiresAt time.Time
}

// MemoryCache is an in-process SessionCache used when no redis address is
// configured, and in tests. Entries past their TTL are dropped lazily on read.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

func NewMemory() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, sessionID string) (*SessionData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[sessionID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, sessionID)
		return nil, nil
	}
	data := e.data
	return &data, nil
}

func (c *MemoryCache) Set(_ context.Context, sessionID string, data SessionData, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[sessionID] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, sessionID)
	return nil
}

// Len reports the number of live entries, for tests.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
