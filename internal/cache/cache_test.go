package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/episteme-app/episteme/internal/model"
)

func testArticle(query string) *model.Article {
	return &model.Article{
		ID:      "test-" + query,
		Query:   query,
		Content: "Content about " + query,
		FactCheck: model.BiasReport{
			ConfidenceScore: 0.85,
			BiasScore:       0.15,
		},
		SourcesCount: 3,
		GeneratedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func TestCacheKey(t *testing.T) {
	k1 := CacheKey("lionel andres messi")
	k2 := CacheKey("lionel andres messi")
	if k1 != k2 {
		t.Errorf("expected identical keys for identical queries, got %s and %s", k1, k2)
	}

	if !strings.HasPrefix(k1, "episteme:v1:") {
		t.Errorf("expected episteme:v1: prefix, got %s", k1)
	}

	k3 := CacheKey("quantum computing")
	if k1 == k3 {
		t.Error("expected different keys for different queries")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(1*time.Minute, 5*time.Minute)

	key := CacheKey("openai")
	if _, found := c.Get(key); found {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set(key, testArticle("openai"), 1*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	article, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after set")
	}
	if article.Query != "openai" || article.SourcesCount != 3 {
		t.Errorf("unexpected article: %+v", article)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	c := NewMemoryCache(1*time.Minute, 5*time.Minute)

	key := CacheKey("openai")
	_ = c.Set(key, testArticle("openai"), 1*time.Minute)

	first, _ := c.Get(key)
	first.Cached = true

	second, _ := c.Get(key)
	if second.Cached {
		t.Error("annotating a returned article must not mutate the stored entry")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(1*time.Minute, 5*time.Minute)

	_ = c.Set("a", testArticle("a"), 1*time.Minute)
	_ = c.Set("b", testArticle("b"), 1*time.Minute)

	if err := c.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if _, found := c.Get("a"); found {
		t.Error("expected miss after clear")
	}
	if _, found := c.Get("b"); found {
		t.Error("expected miss after clear")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, 1*time.Hour)

	key := CacheKey("quantum computing")
	if _, found := c.Get(key); found {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set(key, testArticle("quantum computing"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	article, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after set")
	}
	if article.Query != "quantum computing" {
		t.Errorf("unexpected article query %q", article.Query)
	}
	if article.FactCheck.ConfidenceScore != 0.85 {
		t.Errorf("fact-check did not survive the round trip: %+v", article.FactCheck)
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, 1*time.Hour)

	key := CacheKey("stale")
	if err := c.Set(key, testArticle("stale"), -1*time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("expected miss for expired entry")
	}
}

func TestDiskCache_CorruptEntryEvicted(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, 1*time.Hour)

	key := CacheKey("corrupt")
	if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("expected miss for corrupt entry")
	}
	if _, err := os.Stat(filepath.Join(dir, key+".json")); !os.IsNotExist(err) {
		t.Error("expected corrupt entry to be evicted")
	}
}

func TestLayeredCache_Promotion(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(1*time.Minute, dir, 1*time.Hour)

	key := CacheKey("promoted")
	// Populate only the disk layer
	if err := c.disk.Set(key, testArticle("promoted"), 1*time.Hour); err != nil {
		t.Fatalf("disk set failed: %v", err)
	}

	article, found := c.Get(key)
	if !found {
		t.Fatal("expected disk hit")
	}
	if article.Query != "promoted" {
		t.Errorf("unexpected article query %q", article.Query)
	}

	// The entry should now also be in memory
	if _, found := c.memory.Get(key); !found {
		t.Error("expected entry promoted to memory cache")
	}
}

func TestLayeredCache_Delete(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(1*time.Minute, dir, 1*time.Hour)

	key := CacheKey("gone")
	if err := c.Set(key, testArticle("gone"), 1*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected miss after delete")
	}
}
