package model

import "time"

// Config is the full runtime configuration tree. Values come from (highest
// priority first) CLI flags, EPISTEME_* environment variables, the config
// file, and the defaults below.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Search      SearchConfig      `yaml:"search"`
	Entity      EntityConfig      `yaml:"entity"`
	LLM         LLMConfig         `yaml:"llm"`
	Wiki        WikiConfig        `yaml:"wiki"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls outbound HTTP behavior shared by all network calls
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"` // Empty falls back to environment proxies
}

// SearchConfig controls the web-search aggregation stage
type SearchConfig struct {
	Provider       string        `yaml:"provider"` // tavily, serper
	APIKey         string        `yaml:"api_key,omitempty"`
	MaxSubQueries  int           `yaml:"max_sub_queries"` // Sub-queries taken from entity sources
	MaxResults     int           `yaml:"max_results"`     // Per-sub-query result cap
	Timeout        time.Duration `yaml:"timeout"`         // Whole-search deadline
	ExcludeDomains []string      `yaml:"exclude_domains"` // Low-signal domains dropped from every sub-query
	AllowFallback  bool          `yaml:"allow_fallback"`  // Proceed without web evidence on total failure
	RatePerSecond  float64       `yaml:"rate_per_second"` // Per-domain outbound pacing
	RateBurst      int           `yaml:"rate_burst"`
}

// EntityConfig controls entity resolution
type EntityConfig struct {
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`   // Per DNS probe
	ResolveTimeout time.Duration `yaml:"resolve_timeout"` // Whole resolution
	DNSEndpoint    string        `yaml:"dns_endpoint"`    // DNS-over-HTTPS JSON resolver
}

// LLMConfig controls the content-synthesis collaborator
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds, the overall synthesis deadline
	MaxTokens int    `yaml:"max_tokens"`
}

// WikiConfig controls the encyclopedic-source path
type WikiConfig struct {
	APIEndpoint   string `yaml:"api_endpoint"`
	RespectRobots bool   `yaml:"respect_robots"`
	MaxSections   int    `yaml:"max_sections"`
	MaxKeyFacts   int    `yaml:"max_key_facts"`
}

// CacheConfig controls the article cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Episteme/0.1 (+https://github.com/episteme-app/episteme)",
			MaxBodyBytes: 2_000_000,
		},
		Search: SearchConfig{
			Provider:      "tavily",
			MaxSubQueries: 3,
			MaxResults:    8,
			Timeout:       30 * time.Second,
			ExcludeDomains: []string{
				"reddit.com",
				"quora.com",
				"answers.yahoo.com",
				"wikipedia.org",
			},
			AllowFallback: true,
			RatePerSecond: 2,
			RateBurst:     5,
		},
		Entity: EntityConfig{
			ProbeTimeout:   2 * time.Second,
			ResolveTimeout: 15 * time.Second,
			DNSEndpoint:    "https://dns.google/resolve",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "",
			Timeout:   110,
			MaxTokens: 2000,
		},
		Wiki: WikiConfig{
			APIEndpoint:   "https://en.wikipedia.org/w/api.php",
			RespectRobots: true,
			MaxSections:   10,
			MaxKeyFacts:   8,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
