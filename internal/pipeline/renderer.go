package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/episteme-app/episteme/internal/model"
)

// Renderer writes articles to files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the article as indented JSON
func (r *Renderer) RenderJSON(article *model.Article, path string) error {
	data, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the article as a Markdown document
func (r *Renderer) RenderMarkdown(article *model.Article, path string) error {
	return writeFile(path, []byte(r.Markdown(article)))
}

// Markdown renders the article as a Markdown document
func (r *Renderer) Markdown(article *model.Article) string {
	var b strings.Builder

	if article.Formatted != nil {
		r.formattedMarkdown(&b, article.Formatted)
	} else {
		fmt.Fprintf(&b, "# %s\n\n", titleCase(article.Query))
		b.WriteString(strings.TrimSpace(article.Content))
		b.WriteString("\n")
	}

	if len(article.Warnings) > 0 {
		b.WriteString("\n## Notices\n\n")
		for _, w := range article.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	fc := article.FactCheck
	fmt.Fprintf(&b, "\n## Reliability\n\n")
	fmt.Fprintf(&b, "- Confidence: %.2f\n", fc.ConfidenceScore)
	fmt.Fprintf(&b, "- Bias score: %.2f (%s)\n", fc.BiasScore, fc.Summary)
	if len(fc.BiasWordsFound) > 0 {
		b.WriteString("- Flagged language:")
		for i, f := range fc.BiasWordsFound {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %s", f.Word)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "\n---\n\n*Generated %s from %d source(s)",
			article.GeneratedAt.Format("2006-01-02 15:04 UTC"), article.SourcesCount)
		if article.Degraded {
			b.WriteString(" (web search unavailable)")
		}
		b.WriteString(".*\n")
	}

	return b.String()
}

func (r *Renderer) formattedMarkdown(b *strings.Builder, f *model.FormattedArticle) {
	fmt.Fprintf(b, "# %s\n\n", f.Title)
	if f.Summary != "" {
		b.WriteString(strings.TrimSpace(f.Summary))
		b.WriteString("\n")
	}
	if len(f.KeyFacts) > 0 {
		b.WriteString("\n## Key Facts\n\n")
		for _, fact := range f.KeyFacts {
			fmt.Fprintf(b, "- %s\n", fact)
		}
	}
	for _, s := range f.Sections {
		fmt.Fprintf(b, "\n## %s\n\n%s\n", s.Heading, strings.TrimSpace(s.Content))
	}
}

// RenderSummary prints a short result summary to stdout
func (r *Renderer) RenderSummary(article *model.Article) {
	fmt.Printf("\nQuery:       %s\n", article.Query)
	fmt.Printf("Entity:      %s (%.2f)\n", article.Entity.Type, article.Entity.Confidence)
	fmt.Printf("Sources:     %d\n", article.SourcesCount)
	fmt.Printf("Confidence:  %.2f\n", article.FactCheck.ConfidenceScore)
	fmt.Printf("Bias:        %.2f (%s)\n", article.FactCheck.BiasScore, article.FactCheck.Summary)
	fmt.Printf("Words:       %d\n", article.Analysis.WordCount)
	if article.Cached {
		fmt.Println("Served from cache")
	}
	if article.Degraded {
		fmt.Println("Generated without web evidence")
	}
	for _, w := range article.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
}

// titleCase uppercases the first letter of each word for display titles
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderArticle renders the article to the requested outputs
func (p *Pipeline) RenderArticle(article *model.Article, jsonPath string, mdPath string) error {
	renderer := NewRenderer(p.cfg.Output.IncludeFooter)

	if jsonPath != "" {
		if err := renderer.RenderJSON(article, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := renderer.RenderMarkdown(article, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if p.verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	renderer.RenderSummary(article)

	return nil
}
