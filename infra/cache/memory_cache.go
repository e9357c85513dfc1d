package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/domain/account"
)

// MemoryCache implements AccountCache using in-memory storage
type MemoryCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory cache and starts its cleanup loop.
// Call Close to stop it.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		cache: make(map[string]*cacheEntry),
		stop:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get retrieves an account from cache
func (c *MemoryCache) Get(_ context.Context, key string) (*account.Account, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	acc := entry.acc
	return &acc, nil
}

// Set stores an account with TTL. A zero TTL never expires.
func (c *MemoryCache) Set(_ context.Context, key string, acc *account.Account, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{acc: *acc}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.cache[key] = entry
	return nil
}

// Delete removes an account from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, key)
	return nil
}

// Close stops the cleanup loop.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanup removes expired entries from cache
func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *MemoryCache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.cache {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}

type cacheEntry struct {
	acc       account.Account
	expiresAt time.Time
}

var _ cache.AccountCache = (*MemoryCache)(nil)
