package search

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/episteme-app/episteme/internal/model"
	"github.com/episteme-app/episteme/internal/worker"
)

// Aggregator fans a bounded set of sub-queries out to the search provider,
// merges the results by URL, and renders the evidence bundle handed to the
// content synthesizer.
type Aggregator struct {
	searcher Searcher
	limiter  *worker.Limiter
	cfg      model.SearchConfig
	verbose  bool
}

// NewAggregator creates an Aggregator. searcher may be nil (provider not
// configured), in which case Search always reports ErrSearchUnavailable.
func NewAggregator(searcher Searcher, limiter *worker.Limiter, cfg model.SearchConfig, verbose bool) *Aggregator {
	return &Aggregator{searcher: searcher, limiter: limiter, cfg: cfg, verbose: verbose}
}

// Search issues up to cfg.MaxSubQueries sub-queries built from the entity's
// recommended sources (or the bare query when none are given), deduplicates
// by URL keeping the highest score, and renders the bundle. Individual
// sub-query failures are swallowed and logged; zero total results is
// ErrSearchUnavailable.
func (a *Aggregator) Search(ctx context.Context, query string, sourceHints []string) (*model.EvidenceBundle, error) {
	if a.searcher == nil {
		return nil, model.ErrSearchUnavailable
	}

	subQueries := a.subQueries(query, sourceHints)

	var (
		mu     sync.Mutex
		merged []model.SearchResult
		wg     sync.WaitGroup
	)

	for _, sub := range subQueries {
		wg.Add(1)
		go func(sub string) {
			defer wg.Done()

			if a.limiter != nil {
				if err := a.limiter.Wait(ctx, a.searcher.Endpoint()); err != nil {
					if a.verbose {
						fmt.Fprintf(os.Stderr, "Warning: rate limit wait failed for %q: %v\n", sub, err)
					}
					return
				}
			}

			results, err := a.searcher.Search(ctx, sub, a.cfg.MaxResults, a.cfg.ExcludeDomains)
			if err != nil {
				if a.verbose {
					fmt.Fprintf(os.Stderr, "Warning: search failed for %q: %v\n", sub, err)
				}
				return
			}

			mu.Lock()
			merged = append(merged, results...)
			mu.Unlock()
		}(sub)
	}
	wg.Wait()

	if len(merged) == 0 {
		return nil, model.ErrSearchUnavailable
	}

	deduped := dedupeByURL(merged)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	bundle := &model.EvidenceBundle{Results: deduped}
	bundle.Rendered = RenderBundle(deduped)
	bundle.SourcesCount = strings.Count(bundle.Rendered, "SOURCE")
	return bundle, nil
}

// subQueries bounds and cleans the sub-query list
func (a *Aggregator) subQueries(query string, sourceHints []string) []string {
	max := a.cfg.MaxSubQueries
	if max <= 0 {
		max = 1
	}

	var subs []string
	seen := make(map[string]bool)
	for _, hint := range sourceHints {
		hint = strings.TrimSpace(hint)
		if hint == "" || seen[hint] {
			continue
		}
		seen[hint] = true
		subs = append(subs, hint)
		if len(subs) >= max {
			break
		}
	}
	if len(subs) == 0 {
		subs = []string{fmt.Sprintf("%q", query)}
	}
	return subs
}

// dedupeByURL keeps one result per URL, the highest-scoring instance
func dedupeByURL(results []model.SearchResult) []model.SearchResult {
	best := make(map[string]model.SearchResult)
	order := make([]string, 0, len(results))
	for _, r := range results {
		existing, ok := best[r.URL]
		if !ok {
			order = append(order, r.URL)
			best[r.URL] = r
			continue
		}
		if r.Score > existing.Score {
			best[r.URL] = r
		}
	}

	deduped := make([]model.SearchResult, 0, len(best))
	for _, url := range order {
		deduped = append(deduped, best[url])
	}
	return deduped
}

// RenderBundle renders ordered results into the numbered SOURCE block form
// the synthesizer prompt expects. This exact shape is a wire contract: the
// prompt instructs the model to cite "source n".
func RenderBundle(results []model.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "SOURCE %d: %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		fmt.Fprintf(&b, "CONTENT: %s\n", cleanSnippet(r.Content))
		fmt.Fprintf(&b, "RELEVANCE SCORE: %.2f\n", r.Score)
		b.WriteString("---\n")
	}
	return b.String()
}

// FallbackBundle is the clearly-labeled placeholder used when the pipeline
// proceeds without web evidence.
func FallbackBundle(query string, now time.Time) *model.EvidenceBundle {
	rendered := fmt.Sprintf(`[Web search unavailable - using model knowledge only]
Query: %s
Current date: %s
Note: Use your training data and background knowledge to provide current information.
`, query, now.Format("Monday, January 2, 2006"))

	return &model.EvidenceBundle{
		Rendered:     rendered,
		SourcesCount: 0,
		Degraded:     true,
	}
}
