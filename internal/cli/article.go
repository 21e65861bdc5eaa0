package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/episteme-app/episteme/internal/model"
	"github.com/episteme-app/episteme/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON        string
	outMD          string
	timeout        time.Duration
	userAgent      string
	maxBytes       int64
	noCache        bool
	noFooter       bool
	httpProxy      string
	httpsProxy     string
	llmProvider    string
	llmModel       string
	searchProvider string
	maxResults     int
	noFallback     bool
)

// articleCmd represents the article command
var articleCmd = &cobra.Command{
	Use:   "article <query>",
	Short: "Generate a knowledge article for a query",
	Long: `Article runs the full synthesis pipeline for a single query:
- Normalize the query and check the article cache
- Classify the entity (person, company, technology, concept)
- Aggregate real-time web search evidence
- Synthesize article prose with the configured LLM provider
- Annotate the result with bias and reliability analysis

Example:
  episteme article "Lionel Messi"
  episteme article "quantum computing" --json article.json --md article.md
  episteme article "OpenAI" --llm-provider anthropic --llm-model claude-3-5-sonnet-20241022`,
	Args: cobra.MinimumNArgs(1),
	RunE: runArticle,
}

func init() {
	rootCmd.AddCommand(articleCmd)

	// Output flags
	articleCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	articleCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags
	articleCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall generation timeout (search plus synthesis)")
	articleCmd.Flags().StringVar(&userAgent, "ua", "Episteme/0.1 (+https://github.com/episteme-app/episteme)", "HTTP User-Agent")
	articleCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	articleCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh generation)")
	articleCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")
	articleCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	articleCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Search flags
	articleCmd.Flags().StringVar(&searchProvider, "search-provider", "tavily", "web search provider (tavily, serper)")
	articleCmd.Flags().IntVar(&maxResults, "max-results", 8, "max search results per sub-query")
	articleCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "fail instead of generating from model knowledge when search is unavailable")

	// LLM flags
	articleCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	articleCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runArticle(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Query: %s\n", query)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewFromConfig(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Generating article...\n")
	}

	article, err := p.Generate(ctx, query)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Entity: %s (%.2f)\n", article.Entity.Type, article.Entity.Confidence)
		fmt.Fprintf(os.Stderr, "✓ Evidence: %d source(s)\n", article.SourcesCount)
		fmt.Fprintf(os.Stderr, "✓ Confidence: %.2f, bias: %.2f\n", article.FactCheck.ConfidenceScore, article.FactCheck.BiasScore)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderArticle(article, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the runtime configuration from defaults, flags and
// environment variables
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Search.Provider = searchProvider
	cfg.Search.MaxResults = maxResults
	cfg.Search.AllowFallback = !noFallback
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	if err := resolveAPIKeys(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveAPIKeys pulls provider credentials from the environment
func resolveAPIKeys(cfg *model.Config) error {
	switch cfg.Search.Provider {
	case "tavily":
		cfg.Search.APIKey = os.Getenv("TAVILY_API_KEY")
	case "serper":
		cfg.Search.APIKey = os.Getenv("SERPER_API_KEY")
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}
