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
	wikiEndpoint string
	wikiTimeout  time.Duration
	ignoreRobots bool
	maxSections  int
	maxKeyFacts  int
)

// wikiCmd represents the wiki command
var wikiCmd = &cobra.Command{
	Use:   "wiki <query>",
	Short: "Fetch and format an encyclopedic article for a query",
	Long: `Wiki runs the encyclopedic path: instead of synthesizing prose it
fetches the best-matching article from a MediaWiki API, normalizes its
heading structure into sections and key facts, and annotates the text
with the same bias and reliability analysis as generated articles.

No LLM provider or search API key is required.

Example:
  episteme wiki "Go programming language"
  episteme wiki "Lionel Messi" --json article.json --md article.md
  episteme wiki "Laksa" --endpoint https://en.wikipedia.org/w/api.php`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWiki,
}

func init() {
	rootCmd.AddCommand(wikiCmd)

	// Output flags
	wikiCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	wikiCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Source flags
	wikiCmd.Flags().StringVar(&wikiEndpoint, "endpoint", "https://en.wikipedia.org/w/api.php", "MediaWiki API endpoint")
	wikiCmd.Flags().DurationVar(&wikiTimeout, "timeout", time.Minute, "overall lookup timeout")
	wikiCmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "skip the robots.txt check on the API host")
	wikiCmd.Flags().IntVar(&maxSections, "max-sections", 10, "max sections in the formatted article")
	wikiCmd.Flags().IntVar(&maxKeyFacts, "max-key-facts", 8, "max key facts in the formatted article")
	wikiCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	wikiCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")
	wikiCmd.Flags().StringVar(&userAgent, "ua", "Episteme/0.1 (+https://github.com/episteme-app/episteme)", "HTTP User-Agent")
}

func runWiki(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), wikiTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Query: %s\n", query)
		fmt.Fprintf(os.Stderr, "Endpoint: %s\n", wikiEndpoint)
		fmt.Fprintln(os.Stderr)
	}

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = wikiTimeout
	cfg.HTTP.UserAgent = userAgent
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Wiki.APIEndpoint = wikiEndpoint
	cfg.Wiki.RespectRobots = !ignoreRobots
	cfg.Wiki.MaxSections = maxSections
	cfg.Wiki.MaxKeyFacts = maxKeyFacts
	cfg.LLM.Provider = "" // Encyclopedic path never synthesizes

	p := pipeline.NewFromConfig(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching article...\n")
	}

	article, err := p.Lookup(ctx, query)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if verbose && article.Formatted != nil {
		fmt.Fprintf(os.Stderr, "✓ Title: %s\n", article.Formatted.Title)
		fmt.Fprintf(os.Stderr, "✓ Sections: %d, key facts: %d\n", len(article.Formatted.Sections), len(article.Formatted.KeyFacts))
		fmt.Fprintf(os.Stderr, "✓ Confidence: %.2f, bias: %.2f\n", article.FactCheck.ConfidenceScore, article.FactCheck.BiasScore)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderArticle(article, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
