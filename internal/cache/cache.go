package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/episteme-app/episteme/internal/model"
)

// Cache stores assembled articles keyed by normalized query hash. Get
// returns a copy: callers may annotate the returned article (cache-hit
// marking) without corrupting the stored entry.
type Cache interface {
	Get(key string) (*model.Article, bool)
	Set(key string, article *model.Article, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a normalized query. Queries that
// normalize to the same text share one entry regardless of input casing.
func CacheKey(normalizedQuery string) string {
	hash := sha256.Sum256([]byte(normalizedQuery))
	return "episteme:v1:" + hex.EncodeToString(hash[:])
}
