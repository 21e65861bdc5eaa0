package analyze

import (
	"fmt"
	"regexp"

	"github.com/episteme-app/episteme/internal/model"
)

var (
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)+\b`)
	datePattern = regexp.MustCompile(`\b(?:\d{1,2}[/-])?(?:\d{1,2}[/-])?\d{2,4}\b`)
	wordPattern = regexp.MustCompile(`\b\w+\b`)
)

const maxExtracted = 10

// AnalyzeContent extracts shallow structural signals from prose: multi-word
// proper names, date-like tokens and the word count. Like the bias analyzer
// it never fails; internal faults degrade to a report with an Error string.
func AnalyzeContent(content string) (analysis model.ContentAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			analysis = model.ContentAnalysis{
				Error: fmt.Sprintf("content analysis: %v", r),
			}
		}
	}()

	if content == "" {
		return model.ContentAnalysis{}
	}

	return model.ContentAnalysis{
		Names:     dedupeCapped(namePattern.FindAllString(content, -1)),
		Dates:     dedupeCapped(datePattern.FindAllString(content, -1)),
		WordCount: len(wordPattern.FindAllString(content, -1)),
	}
}

// dedupeCapped removes duplicates preserving first-seen order, capped for
// display bounding
func dedupeCapped(matches []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) == maxExtracted {
			break
		}
	}
	return out
}
