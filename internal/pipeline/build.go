package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/episteme-app/episteme/internal/analyze"
	"github.com/episteme-app/episteme/internal/cache"
	"github.com/episteme-app/episteme/internal/entity"
	"github.com/episteme-app/episteme/internal/model"
	"github.com/episteme-app/episteme/internal/normalize"
	"github.com/episteme-app/episteme/internal/search"
	"github.com/episteme-app/episteme/internal/synth"
	"github.com/episteme-app/episteme/internal/util"
	"github.com/episteme-app/episteme/internal/wiki"
	"github.com/episteme-app/episteme/internal/worker"
)

// NewFromConfig wires a pipeline from real collaborators. Missing optional
// pieces (search provider, LLM provider) degrade at request time instead of
// failing construction.
func NewFromConfig(cfg *model.Config) *Pipeline {
	verbose := cfg.Output.Verbose

	history := normalize.NewMemoryHistory(24*time.Hour, time.Hour)

	// One limiter shared by every paced upstream; buckets are per domain
	limiter := worker.NewLimiter(cfg.Search.RatePerSecond, cfg.Search.RateBurst)

	var searcher EvidenceSearcher
	if cfg.Search.Provider != "" && cfg.Search.APIKey != "" {
		s, err := search.NewSearcher(cfg.Search, cfg.HTTP.UserAgent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: search provider unavailable: %v\n", err)
		} else {
			searcher = search.NewAggregator(s, limiter, cfg.Search, verbose)
		}
	}

	var synthesizer ArticleSynthesizer
	provider, err := synth.NewProvider(synth.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM provider unavailable: %v\n", err)
	} else {
		synthesizer = synth.NewSynthesizer(provider, cfg.LLM.Timeout)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cacheDir(cfg.Cache.Dir), cfg.Cache.DiskTTL)
	}

	robots := util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	prober := entity.NewDoHProber(cfg.Entity.DNSEndpoint, cfg.Entity.ProbeTimeout, cfg.HTTP.UserAgent, limiter)

	return New(Params{
		Config:      cfg,
		Normalizer:  normalize.New(history, verbose),
		History:     history,
		Resolver:    entity.NewResolver(prober),
		Searcher:    searcher,
		Synthesizer: synthesizer,
		Fetcher:     wiki.NewFetcher(cfg, robots),
		Formatter:   wiki.NewFormatter(cfg.Wiki),
		Analyzer:    analyze.NewBiasAnalyzer(),
		Cache:       store,
	})
}

// cacheDir resolves the on-disk cache location, defaulting under the home dir
func cacheDir(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "episteme-cache")
	}
	return filepath.Join(home, ".episteme", "cache")
}
