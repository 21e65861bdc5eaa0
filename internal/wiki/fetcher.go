package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/episteme-app/episteme/internal/model"
	"github.com/episteme-app/episteme/internal/util"
)

// RobotsPolicy gates outbound document fetches
type RobotsPolicy interface {
	IsAllowed(ctx context.Context, rawURL string) bool
}

// Fetcher retrieves encyclopedic articles from a MediaWiki API endpoint.
// A query is first matched against the search index, then the best-scoring
// title's plaintext extract is pulled together with its categories and links.
type Fetcher struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	maxBytes   int64
	robots     RobotsPolicy
	respect    bool
}

// NewFetcher creates a new encyclopedic fetcher
func NewFetcher(cfg *model.Config, robots RobotsPolicy) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		endpoint:  cfg.Wiki.APIEndpoint,
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		robots:    robots,
		respect:   cfg.Wiki.RespectRobots,
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type pageResponse struct {
	Query struct {
		Pages map[string]struct {
			Title      string  `json:"title"`
			Extract    string  `json:"extract"`
			Missing    *string `json:"missing"`
			Categories []struct {
				Title string `json:"title"`
			} `json:"categories"`
			Links []struct {
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// Fetch retrieves the best-matching article for the query
func (f *Fetcher) Fetch(ctx context.Context, query string) (*model.WikiArticle, error) {
	if f.respect && f.robots != nil && !f.robots.IsAllowed(ctx, f.endpoint) {
		return nil, fmt.Errorf("fetch %s: blocked by robots.txt", f.endpoint)
	}

	title, err := f.bestTitle(ctx, query)
	if err != nil {
		return nil, err
	}

	return f.fetchPage(ctx, title)
}

// bestTitle searches the index and scores candidate titles against the query
func (f *Fetcher) bestTitle(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", strings.TrimSpace(query))
	params.Set("format", "json")

	var result searchResponse
	if err := f.get(ctx, params, &result); err != nil {
		return "", fmt.Errorf("article search: %w", err)
	}

	if len(result.Query.Search) == 0 {
		return "", model.ErrArticleNotFound
	}

	queryLower := strings.ToLower(query)
	words := strings.Fields(queryLower)

	best := result.Query.Search[0].Title
	bestScore := 0

	for _, candidate := range result.Query.Search {
		titleLower := strings.ToLower(candidate.Title)

		score := 0
		if titleLower == queryLower {
			score += 1000
		}
		if strings.HasPrefix(titleLower, queryLower) {
			score += 100
		}
		if strings.Contains(titleLower, queryLower) {
			score += 50
		}
		for _, w := range words {
			if strings.Contains(titleLower, w) {
				score += 10
			}
		}

		if score > bestScore {
			bestScore = score
			best = candidate.Title
		}
	}

	return best, nil
}

// fetchPage pulls the plaintext extract and metadata for a title
func (f *Fetcher) fetchPage(ctx context.Context, title string) (*model.WikiArticle, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|categories|links")
	params.Set("titles", title)
	params.Set("explaintext", "true")
	params.Set("exsectionformat", "wiki")
	params.Set("redirects", "1")
	params.Set("format", "json")

	var result pageResponse
	if err := f.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("article fetch: %w", err)
	}

	for _, page := range result.Query.Pages {
		if page.Missing != nil {
			continue
		}

		var categories []string
		for _, c := range page.Categories {
			categories = append(categories, strings.TrimPrefix(c.Title, "Category:"))
		}

		var links []string
		for _, l := range page.Links {
			links = append(links, l.Title)
			if len(links) == 20 {
				break
			}
		}

		summary := page.Extract
		if idx := strings.Index(summary, "\n"); idx >= 0 {
			summary = summary[:idx]
		}
		if summary == "" && len(page.Extract) > 200 {
			summary = page.Extract[:200]
		}

		return &model.WikiArticle{
			Title:      page.Title,
			Content:    page.Extract,
			Summary:    summary,
			Links:      links,
			Categories: categories,
		}, nil
	}

	return nil, model.ErrArticleNotFound
}

// get performs one API call and decodes the JSON body
func (f *Fetcher) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
