package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/episteme-app/episteme/internal/model"
)

// Searcher is the external web-search collaborator. Implementations return
// scored snippets for one sub-query, already respecting the exclude list.
type Searcher interface {
	// Name returns the provider name
	Name() string

	// Search issues one sub-query and returns up to maxResults scored results
	Search(ctx context.Context, query string, maxResults int, excludeDomains []string) ([]model.SearchResult, error)

	// Endpoint returns the provider API URL, used for outbound rate limiting
	Endpoint() string
}

// NewSearcher creates a search provider by name
func NewSearcher(cfg model.SearchConfig, userAgent string) (Searcher, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch strings.ToLower(cfg.Provider) {
	case "tavily":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("tavily API key is required")
		}
		return &TavilySearch{apiKey: cfg.APIKey, httpClient: httpClient, userAgent: userAgent}, nil

	case "serper":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("serper API key is required")
		}
		return &SerperSearch{apiKey: cfg.APIKey, httpClient: httpClient, userAgent: userAgent}, nil

	case "":
		// No provider configured - search disabled, the pipeline decides
		// whether fallback evidence is acceptable.
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s (supported: tavily, serper)", cfg.Provider)
	}
}

// hostExcluded reports whether a result URL belongs to an excluded domain
func hostExcluded(rawURL string, excludeDomains []string) bool {
	lower := strings.ToLower(rawURL)
	for _, domain := range excludeDomains {
		if strings.Contains(lower, strings.ToLower(domain)) {
			return true
		}
	}
	return false
}
