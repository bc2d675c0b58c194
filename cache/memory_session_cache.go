package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/thriftwear/storefront/domain"
)

// sessionKey is the single entry key: one cached session per process.
const sessionKey = "session"

// MemorySessionCache implements domain.SessionCache using ttlcache.
type MemorySessionCache struct {
	cache *ttlcache.Cache[string, *domain.User]
}

// NewMemorySessionCache creates an in-memory session cache with automatic
// expiry of the stored entry.
func NewMemorySessionCache() *MemorySessionCache {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, *domain.User](),
	)

	// Start the cleanup process
	go cache.Start()

	return &MemorySessionCache{cache: cache}
}

// Write implements domain.SessionCache.Write.
func (c *MemorySessionCache) Write(_ context.Context, user *domain.User, ttl time.Duration) error {
	c.cache.Set(sessionKey, user, ttl)
	return nil
}

// Read implements domain.SessionCache.Read. Expired entries read as absent.
func (c *MemorySessionCache) Read(_ context.Context) (*domain.User, error) {
	item := c.cache.Get(sessionKey)
	if item == nil {
		return nil, nil
	}
	return item.Value(), nil
}

// Clear implements domain.SessionCache.Clear.
func (c *MemorySessionCache) Clear(_ context.Context) error {
	c.cache.Delete(sessionKey)
	return nil
}

// Close stops the expiry goroutine.
func (c *MemorySessionCache) Close() {
	c.cache.Stop()
}

var _ domain.SessionCache = (*MemorySessionCache)(nil)
