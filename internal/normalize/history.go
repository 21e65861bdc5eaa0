package normalize

import (
	"context"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryHistory is an in-memory query-history store. Entries expire so the
// expansion pool tracks recent usage rather than growing without bound.
type MemoryHistory struct {
	cache *gocache.Cache
}

// NewMemoryHistory creates a query-history store with the given TTL
func NewMemoryHistory(ttl time.Duration, cleanupInterval time.Duration) *MemoryHistory {
	return &MemoryHistory{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Record remembers a normalized query for later expansion lookups.
// Re-recording an existing query refreshes its recency.
func (h *MemoryHistory) Record(query string) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return
	}
	h.cache.Set(query, time.Now(), gocache.DefaultExpiration)
}

// FindByWordSubstring returns recorded queries containing word as a
// case-insensitive substring, most recently recorded first. Ordering is
// deterministic: recency, then lexicographic as a tie-break.
func (h *MemoryHistory) FindByWordSubstring(_ context.Context, word string) ([]string, error) {
	word = strings.ToLower(word)

	type recorded struct {
		query string
		at    time.Time
	}

	var matches []recorded
	for key, item := range h.cache.Items() {
		if strings.Contains(key, word) {
			at, _ := item.Object.(time.Time)
			matches = append(matches, recorded{query: key, at: at})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].at.Equal(matches[j].at) {
			return matches[i].at.After(matches[j].at)
		}
		return matches[i].query < matches[j].query
	})

	queries := make([]string, len(matches))
	for i, m := range matches {
		queries[i] = m.query
	}
	return queries, nil
}
