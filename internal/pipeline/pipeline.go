package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/episteme-app/episteme/internal/analyze"
	"github.com/episteme-app/episteme/internal/cache"
	"github.com/episteme-app/episteme/internal/model"
	"github.com/episteme-app/episteme/internal/search"
	"github.com/episteme-app/episteme/internal/synth"
	"github.com/episteme-app/episteme/internal/wiki"
)

// QueryNormalizer canonicalizes a raw query
type QueryNormalizer interface {
	Normalize(ctx context.Context, raw string) string
}

// EntityResolver classifies a normalized query
type EntityResolver interface {
	Resolve(ctx context.Context, query string) model.EntityClassification
}

// EvidenceSearcher aggregates web evidence for a query
type EvidenceSearcher interface {
	Search(ctx context.Context, query string, sourceHints []string) (*model.EvidenceBundle, error)
}

// ArticleSynthesizer turns evidence into article prose
type ArticleSynthesizer interface {
	Available() bool
	Synthesize(ctx context.Context, req synth.SynthesizeRequest) (*synth.SynthesizeResponse, error)
}

// ArticleFetcher retrieves encyclopedic source documents
type ArticleFetcher interface {
	Fetch(ctx context.Context, query string) (*model.WikiArticle, error)
}

// HistoryRecorder remembers served queries for later expansion lookups
type HistoryRecorder interface {
	Record(query string)
}

// Params collects the pipeline's collaborators
type Params struct {
	Config      *model.Config
	Normalizer  QueryNormalizer
	History     HistoryRecorder
	Resolver    EntityResolver
	Searcher    EvidenceSearcher
	Synthesizer ArticleSynthesizer
	Fetcher     ArticleFetcher
	Formatter   *wiki.Formatter
	Analyzer    *analyze.BiasAnalyzer
	Cache       cache.Cache
}

// Pipeline executes one article generation per query: normalize, resolve,
// search, synthesize, analyze, assemble. The encyclopedic Lookup path shares
// normalization, analysis and caching but not search or synthesis.
type Pipeline struct {
	cfg         *model.Config
	normalizer  QueryNormalizer
	history     HistoryRecorder
	resolver    EntityResolver
	searcher    EvidenceSearcher
	synthesizer ArticleSynthesizer
	fetcher     ArticleFetcher
	formatter   *wiki.Formatter
	analyzer    *analyze.BiasAnalyzer
	store       cache.Cache
	verbose     bool
}

// New creates a pipeline from its collaborators
func New(p Params) *Pipeline {
	return &Pipeline{
		cfg:         p.Config,
		normalizer:  p.Normalizer,
		history:     p.History,
		resolver:    p.Resolver,
		searcher:    p.Searcher,
		synthesizer: p.Synthesizer,
		fetcher:     p.Fetcher,
		formatter:   p.Formatter,
		analyzer:    p.Analyzer,
		store:       p.Cache,
		verbose:     p.Config.Output.Verbose,
	}
}

// Generate runs the synthesis path for one raw query
func (p *Pipeline) Generate(ctx context.Context, rawQuery string) (*model.Article, error) {
	normalized := p.normalizer.Normalize(ctx, rawQuery)
	p.logf("normalized %q -> %q", rawQuery, normalized)

	if article, ok := p.cached(cache.CacheKey(normalized)); ok {
		p.logf("cache hit for %q", normalized)
		return article, nil
	}

	var warnings []string

	entity, degraded := p.resolveEntity(ctx, normalized)
	if degraded {
		warnings = append(warnings, "entity resolution degraded: proceeding with default classification")
	}
	p.logf("entity: %s (%.2f)", entity.Type, entity.Confidence)

	bundle, err := p.search(ctx, normalized, entity.Sources)
	if err != nil {
		if !p.cfg.Search.AllowFallback {
			return nil, fmt.Errorf("%w: %v", model.ErrSearchUnavailable, err)
		}
		p.logf("search failed (%v), entering fallback mode", err)
		bundle = search.FallbackBundle(normalized, time.Now())
		warnings = append(warnings, "web search unavailable: article generated from model knowledge only")
	}
	p.logf("evidence: %d sources (degraded=%v)", bundle.SourcesCount, bundle.Degraded)

	if p.synthesizer == nil || !p.synthesizer.Available() {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider)")
	}

	resp, err := p.synthesizer.Synthesize(ctx, synth.SynthesizeRequest{
		Query:    normalized,
		Entity:   entity,
		Evidence: *bundle,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	article := &model.Article{
		ID:           uuid.NewString(),
		Query:        normalized,
		Content:      resp.Content,
		Entity:       entity,
		Analysis:     analyze.AnalyzeContent(resp.Content),
		FactCheck:    p.analyzer.Analyze(resp.Content),
		SourcesCount: bundle.SourcesCount,
		Degraded:     bundle.Degraded,
		Warnings:     warnings,
		GeneratedAt:  time.Now().UTC(),
	}

	p.persist(cache.CacheKey(normalized), article)
	p.remember(normalized)

	return article, nil
}

// Lookup runs the encyclopedic path for one raw query
func (p *Pipeline) Lookup(ctx context.Context, rawQuery string) (*model.Article, error) {
	normalized := p.normalizer.Normalize(ctx, rawQuery)
	p.logf("normalized %q -> %q", rawQuery, normalized)

	key := cache.CacheKey("wiki:" + normalized)
	if article, ok := p.cached(key); ok {
		p.logf("cache hit for %q", normalized)
		return article, nil
	}

	if p.fetcher == nil {
		return nil, fmt.Errorf("no encyclopedic source configured")
	}

	source, err := p.fetcher.Fetch(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("encyclopedic fetch: %w", err)
	}
	p.logf("fetched %q (%d chars)", source.Title, len(source.Content))

	article := &model.Article{
		ID:           uuid.NewString(),
		Query:        normalized,
		Content:      source.Content,
		Entity:       model.DefaultClassification(normalized),
		Analysis:     analyze.AnalyzeContent(source.Content),
		FactCheck:    p.analyzer.Analyze(source.Content),
		Formatted:    p.formatter.Format(source),
		SourcesCount: 1,
		GeneratedAt:  time.Now().UTC(),
	}

	p.persist(key, article)
	p.remember(normalized)

	return article, nil
}

func (p *Pipeline) search(ctx context.Context, query string, sourceHints []string) (*model.EvidenceBundle, error) {
	if p.searcher == nil {
		return nil, fmt.Errorf("no search provider configured")
	}

	return p.searcher.Search(ctx, query, sourceHints)
}

// resolveEntity runs resolution under its own deadline. A timeout degrades
// to the default classification instead of failing the request.
func (p *Pipeline) resolveEntity(ctx context.Context, normalized string) (model.EntityClassification, bool) {
	if p.resolver == nil {
		return model.DefaultClassification(normalized), true
	}

	timeout := p.cfg.Entity.ResolveTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	resolveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan model.EntityClassification, 1)
	go func() {
		done <- p.resolver.Resolve(resolveCtx, normalized)
	}()

	select {
	case entity := <-done:
		return entity, false
	case <-resolveCtx.Done():
		p.logf("entity resolution timed out after %v", timeout)
		return model.DefaultClassification(normalized), true
	}
}

// cached loads an article from the cache, marking it as a cache hit
func (p *Pipeline) cached(key string) (*model.Article, bool) {
	if p.store == nil || !p.cfg.Cache.Enabled {
		return nil, false
	}

	article, found := p.store.Get(key)
	if !found {
		return nil, false
	}

	article.Cached = true
	return article, true
}

// persist stores an article in the cache; failures are non-fatal
func (p *Pipeline) persist(key string, article *model.Article) {
	if p.store == nil || !p.cfg.Cache.Enabled {
		return
	}

	if err := p.store.Set(key, article, p.cfg.Cache.MemoryTTL); err != nil {
		p.logf("cache store failed: %v", err)
	}
}

func (p *Pipeline) remember(normalized string) {
	if p.history != nil {
		p.history.Record(normalized)
	}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
