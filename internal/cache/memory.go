package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/episteme-app/episteme/internal/model"
)

// MemoryCache holds recently generated articles in memory. Entries are
// stored as values, not pointers, so cache-hit annotations on returned
// articles never leak back into the store.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves an article from the cache
func (c *MemoryCache) Get(key string) (*model.Article, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	article := val.(model.Article)
	return &article, true
}

// Set stores an article in the cache with the given TTL
func (c *MemoryCache) Set(key string, article *model.Article, ttl time.Duration) error {
	c.cache.Set(key, *article, ttl)
	return nil
}

// Delete removes an article from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all articles from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
