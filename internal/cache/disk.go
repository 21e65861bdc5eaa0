package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/episteme-app/episteme/internal/model"
)

// DiskCache persists articles as JSON files so they survive process
// restarts. One file per normalized query.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a new disk cache
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		dir: dir,
		ttl: ttl,
	}
}

type articleEntry struct {
	Article   model.Article `json:"article"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Get retrieves an article from the disk cache
func (c *DiskCache) Get(key string) (*model.Article, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry articleEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Unreadable entries are evicted, not surfaced
		_ = os.Remove(path)
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return &entry.Article, true
}

// Set stores an article in the disk cache
func (c *DiskCache) Set(key string, article *model.Article, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	entry := articleEntry{
		Article:   *article,
		ExpiresAt: time.Now().Add(ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal article entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := os.WriteFile(c.path(key), data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	return nil
}

// Delete removes an article from the disk cache. Deleting an absent entry
// is not an error.
func (c *DiskCache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cached files
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// path generates the file path for a cache key
func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}
