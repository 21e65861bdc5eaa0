package cache

import (
	"time"

	"github.com/episteme-app/episteme/internal/model"
)

// LayeredCache fronts the disk cache with the memory cache: fresh reads
// come from memory, disk survivors are promoted back on first access after
// a restart.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get retrieves an article, checking memory before disk
func (c *LayeredCache) Get(key string) (*model.Article, bool) {
	if article, found := c.memory.Get(key); found {
		return article, true
	}

	if article, found := c.disk.Get(key); found {
		// Promote to the memory layer under its default TTL
		_ = c.memory.Set(key, article, 0)
		return article, true
	}

	return nil, false
}

// Set stores an article in both layers
func (c *LayeredCache) Set(key string, article *model.Article, ttl time.Duration) error {
	if err := c.memory.Set(key, article, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, article, ttl)
}

// Delete removes an article from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear removes all articles from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
