package search

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/episteme-app/episteme/internal/model"
	"github.com/episteme-app/episteme/internal/worker"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]model.SearchResult
	err     error
	queries []string
}

func (f *fakeSearcher) Name() string     { return "fake" }
func (f *fakeSearcher) Endpoint() string { return "https://search.invalid/api" }

func (f *fakeSearcher) Search(_ context.Context, query string, _ int, _ []string) ([]model.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func testConfig() model.SearchConfig {
	cfg := model.DefaultConfig().Search
	cfg.APIKey = "test"
	return cfg
}

func TestAggregator_DedupByURLKeepsHighestScore(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]model.SearchResult{
		"a": {
			{Title: "First", URL: "https://example.com/page", Content: "low", Score: 0.4},
		},
		"b": {
			{Title: "Second", URL: "https://example.com/page", Content: "high", Score: 0.9},
			{Title: "Other", URL: "https://other.com", Content: "other", Score: 0.5},
		},
	}}
	agg := NewAggregator(searcher, nil, testConfig(), false)

	bundle, err := agg.Search(context.Background(), "example", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(bundle.Results) != 2 {
		t.Fatalf("Expected 2 deduplicated results, got %d", len(bundle.Results))
	}
	if bundle.Results[0].URL != "https://example.com/page" || bundle.Results[0].Score != 0.9 {
		t.Errorf("Expected highest-scoring duplicate first, got %+v", bundle.Results[0])
	}
	if strings.Count(bundle.Rendered, "https://example.com/page") != 1 {
		t.Error("Duplicate URL rendered more than once")
	}
}

func TestAggregator_SourcesCountMatchesRenderedBlocks(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]model.SearchResult{
		"q": {
			{Title: "A", URL: "https://a.com", Content: "a", Score: 0.9},
			{Title: "B", URL: "https://b.com", Content: "b", Score: 0.8},
			{Title: "C", URL: "https://c.com", Content: "c", Score: 0.7},
		},
	}}
	agg := NewAggregator(searcher, nil, testConfig(), false)

	bundle, err := agg.Search(context.Background(), "q", []string{"q"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if bundle.SourcesCount != len(bundle.Results) {
		t.Errorf("SourcesCount %d != rendered results %d", bundle.SourcesCount, len(bundle.Results))
	}
	if got := strings.Count(bundle.Rendered, "SOURCE"); got != bundle.SourcesCount {
		t.Errorf("Rendered SOURCE markers %d != SourcesCount %d", got, bundle.SourcesCount)
	}
}

func TestAggregator_OrderedByDescendingScore(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]model.SearchResult{
		"q": {
			{Title: "Low", URL: "https://low.com", Score: 0.2},
			{Title: "High", URL: "https://high.com", Score: 0.95},
			{Title: "Mid", URL: "https://mid.com", Score: 0.6},
		},
	}}
	agg := NewAggregator(searcher, nil, testConfig(), false)

	bundle, err := agg.Search(context.Background(), "q", []string{"q"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for i := 1; i < len(bundle.Results); i++ {
		if bundle.Results[i].Score > bundle.Results[i-1].Score {
			t.Fatalf("Results not in descending score order: %+v", bundle.Results)
		}
	}
	if !strings.HasPrefix(bundle.Rendered, "SOURCE 1: High") {
		t.Errorf("Expected top-scored result as SOURCE 1, got:\n%s", bundle.Rendered)
	}
}

func TestAggregator_SubQueryCap(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]model.SearchResult{
		"h1": {{Title: "R", URL: "https://r.com", Score: 0.5}},
	}}
	cfg := testConfig()
	cfg.MaxSubQueries = 2
	agg := NewAggregator(searcher, nil, cfg, false)

	_, err := agg.Search(context.Background(), "q", []string{"h1", "h2", "h3", "h4"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(searcher.queries) != 2 {
		t.Errorf("Expected 2 sub-queries issued, got %v", searcher.queries)
	}
}

func TestAggregator_TotalFailureIsSearchUnavailable(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("upstream down")}
	agg := NewAggregator(searcher, nil, testConfig(), false)

	_, err := agg.Search(context.Background(), "q", []string{"a", "b"})
	if !errors.Is(err, model.ErrSearchUnavailable) {
		t.Errorf("Expected ErrSearchUnavailable, got %v", err)
	}
}

func TestAggregator_LimiterWaitFailureIsLogged(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]model.SearchResult{
		"q": {{Title: "R", URL: "https://r.com", Score: 0.5}},
	}}
	limiter := worker.NewLimiter(1, 1)
	agg := NewAggregator(searcher, limiter, testConfig(), true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	origStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	os.Stderr = w
	_, searchErr := agg.Search(ctx, "q", []string{"q"})
	w.Close()
	os.Stderr = origStderr
	captured, _ := io.ReadAll(r)
	r.Close()

	if !errors.Is(searchErr, model.ErrSearchUnavailable) {
		t.Errorf("Expected ErrSearchUnavailable, got %v", searchErr)
	}
	if len(searcher.queries) != 0 {
		t.Errorf("Search must not run when the limiter refuses, got queries %v", searcher.queries)
	}
	if !strings.Contains(string(captured), "rate limit wait failed") {
		t.Errorf("Expected rate-limit warning on stderr, got:\n%s", captured)
	}
}

func TestAggregator_NilSearcherIsSearchUnavailable(t *testing.T) {
	agg := NewAggregator(nil, nil, testConfig(), false)

	_, err := agg.Search(context.Background(), "q", nil)
	if !errors.Is(err, model.ErrSearchUnavailable) {
		t.Errorf("Expected ErrSearchUnavailable, got %v", err)
	}
}

func TestAggregator_BareQueryWhenNoHints(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]model.SearchResult{
		`"episteme"`: {{Title: "R", URL: "https://r.com", Score: 0.5}},
	}}
	agg := NewAggregator(searcher, nil, testConfig(), false)

	bundle, err := agg.Search(context.Background(), "episteme", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if bundle.SourcesCount != 1 {
		t.Errorf("Expected 1 source from bare-query fallback, got %d", bundle.SourcesCount)
	}
}

func TestRenderBundle_WireShape(t *testing.T) {
	rendered := RenderBundle([]model.SearchResult{
		{Title: "Example", URL: "https://example.com", Content: "Some content", Score: 0.87},
	})

	for _, want := range []string{
		"SOURCE 1: Example",
		"URL: https://example.com",
		"CONTENT: Some content",
		"RELEVANCE SCORE: 0.87",
		"---",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Rendered bundle missing %q:\n%s", want, rendered)
		}
	}
}

func TestFallbackBundle(t *testing.T) {
	bundle := FallbackBundle("openai", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))

	if !bundle.Degraded {
		t.Error("Fallback bundle must be marked degraded")
	}
	if bundle.SourcesCount != 0 {
		t.Errorf("Fallback bundle has no sources, got %d", bundle.SourcesCount)
	}
	if !strings.Contains(bundle.Rendered, "Web search unavailable") {
		t.Errorf("Fallback bundle missing label:\n%s", bundle.Rendered)
	}
	if !strings.Contains(bundle.Rendered, "Sunday, August 30, 2026") {
		t.Errorf("Fallback bundle missing current date:\n%s", bundle.Rendered)
	}
}

func TestCleanSnippet(t *testing.T) {
	got := cleanSnippet("<p>Hello <b>world</b><script>evil()</script></p>")
	if got != "Hello world" {
		t.Errorf("Expected 'Hello world', got %q", got)
	}

	got = cleanSnippet("plain   text\n with  spaces")
	if got != "plain text with spaces" {
		t.Errorf("Expected collapsed whitespace, got %q", got)
	}
}
