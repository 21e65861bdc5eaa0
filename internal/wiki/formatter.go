package wiki

import (
	"regexp"
	"strings"

	"github.com/episteme-app/episteme/internal/model"
)

var (
	bulletPattern    = regexp.MustCompile(`^[\*•\-]\s+`)
	paragraphPattern = regexp.MustCompile(`\n\n+`)
)

const (
	overviewLines  = 3
	minOverviewLen = 10
	metadataCap    = 10
)

// Formatter restructures raw encyclopedic wikitext into a normalized section
// tree with extracted key facts. It is a pure transformation with no shared
// state and is safe to call concurrently.
type Formatter struct {
	maxSections int
	maxKeyFacts int
}

// NewFormatter creates a new article formatter
func NewFormatter(cfg model.WikiConfig) *Formatter {
	maxSections := cfg.MaxSections
	if maxSections <= 0 {
		maxSections = 10
	}
	maxKeyFacts := cfg.MaxKeyFacts
	if maxKeyFacts <= 0 {
		maxKeyFacts = 8
	}
	return &Formatter{
		maxSections: maxSections,
		maxKeyFacts: maxKeyFacts,
	}
}

// Format converts a raw article into its display form
func (f *Formatter) Format(article *model.WikiArticle) *model.FormattedArticle {
	normalized := normalizeHeadings(article.Content)

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	var sections []model.ArticleSection
	var keyFacts []string
	current := model.ArticleSection{Heading: "Overview"}

	// The first substantial lines form the overview verbatim. A heading ends
	// the overview immediately, however short it is.
	next := 0
	taken := 0
	for ; next < len(lines) && taken < overviewLines; next++ {
		trimmed := strings.TrimSpace(lines[next])
		if strings.HasPrefix(trimmed, "#") {
			break
		}
		if len(trimmed) > minOverviewLen {
			current.Content = joinParagraph(current.Content, lines[next])
			taken++
		}
	}

	sawHeading := false
	for _, line := range lines[next:] {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "#"):
			sawHeading = true
			if strings.TrimSpace(current.Content) != "" {
				sections = append(sections, current)
			}
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			current = model.ArticleSection{Heading: heading}

		case bulletPattern.MatchString(trimmed):
			keyFacts = append(keyFacts, strings.TrimSpace(bulletPattern.ReplaceAllString(trimmed, "")))
			if current.Content != "" {
				current.Content += "\n" + line
			} else {
				current.Content = line
			}

		default:
			current.Content = joinParagraph(current.Content, line)
		}
	}

	if strings.TrimSpace(current.Content) != "" {
		sections = append(sections, current)
	}

	// Flat, headingless content collapses into a single paragraph-split
	// section
	if !sawHeading || len(sections) == 0 {
		sections = []model.ArticleSection{{
			Heading: "Content",
			Content: strings.Join(splitParagraphs(article.Content), "\n\n"),
		}}
	}

	if len(sections) > f.maxSections {
		sections = sections[:f.maxSections]
	}
	if len(keyFacts) > f.maxKeyFacts {
		keyFacts = keyFacts[:f.maxKeyFacts]
	}

	return &model.FormattedArticle{
		Title:    article.Title,
		Summary:  article.Summary,
		Sections: sections,
		KeyFacts: keyFacts,
		Metadata: model.ArticleMetadata{
			WordCount:     len(strings.Fields(article.Content)),
			Categories:    capped(article.Categories, metadataCap),
			RelatedTopics: capped(article.Links, metadataCap),
		},
	}
}

// normalizeHeadings rewrites MediaWiki "== Heading ==" lines into markdown
// style headings, nesting by the count of equals signs.
func normalizeHeadings(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		open := countPrefix(trimmed, '=')
		closing := countSuffix(trimmed, '=')
		if open == 0 || open != closing || open*2 >= len(trimmed) {
			continue
		}

		text := strings.TrimSpace(trimmed[open : len(trimmed)-closing])
		if text == "" {
			continue
		}

		level := open - 1
		if level > 0 {
			lines[i] = strings.Repeat("#", level) + " " + text
		} else {
			lines[i] = text
		}
	}
	return strings.Join(lines, "\n")
}

func countPrefix(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func countSuffix(s string, c byte) int {
	n := 0
	for n < len(s) && s[len(s)-1-n] == c {
		n++
	}
	return n
}

func joinParagraph(body, line string) string {
	if body == "" {
		return line
	}
	return body + "\n\n" + line
}

func capped(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func splitParagraphs(content string) []string {
	var paragraphs []string
	for _, p := range paragraphPattern.Split(content, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
