package normalize

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// HistoryLookup finds previously-seen normalized queries containing a word
// as a case-insensitive substring. Injected so the pipeline can back it with
// whatever store the surrounding system uses (and tests with an in-memory
// fake).
type HistoryLookup interface {
	FindByWordSubstring(ctx context.Context, word string) ([]string, error)
}

// nameSuffixes matches trailing name suffixes for canonicalization.
// Punctuation before the suffix ("Smith, Jr.") is tolerated.
var nameSuffixes = regexp.MustCompile(`[\s,]+(jr|sr|ii|iii|iv|v|junior|senior)\.?$`)

var bareSuffix = regexp.MustCompile(`\b(jr|sr)\b`)

// Normalizer canonicalizes raw user queries into stable cache keys
type Normalizer struct {
	history HistoryLookup
	verbose bool
}

// New creates a Normalizer. history may be nil, in which case single-word
// expansion is skipped.
func New(history HistoryLookup, verbose bool) *Normalizer {
	return &Normalizer{history: history, verbose: verbose}
}

// Normalize canonicalizes a raw query. It never fails: a history lookup
// error degrades silently to the locally-normalized form. Normalization is
// idempotent and can only resolve toward a more specific previously-seen
// form, never invent one.
func (n *Normalizer) Normalize(ctx context.Context, raw string) string {
	if raw == "" {
		return ""
	}

	normalized := canonicalizeSuffixes(strings.ToLower(strings.TrimSpace(raw)))
	words := splitWords(normalized)

	// Multi-word queries are assumed already disambiguated.
	if len(words) >= 2 {
		return normalized
	}
	if len(words) == 0 {
		return normalized
	}

	if n.history == nil {
		return normalized
	}

	matches, err := n.history.FindByWordSubstring(ctx, words[0])
	if err != nil {
		if n.verbose {
			fmt.Fprintf(os.Stderr, "Warning: query history lookup failed: %v\n", err)
		}
		return normalized
	}
	if len(matches) == 0 {
		return normalized
	}

	// Prefer the fullest previously-seen form: multi-word matches ranked by
	// descending token count, so "messi" resolves to "lionel messi".
	fullNames := make([]string, 0, len(matches))
	for _, m := range matches {
		candidate := canonicalizeSuffixes(strings.ToLower(m))
		if len(splitWords(candidate)) >= 2 {
			fullNames = append(fullNames, candidate)
		}
	}
	if len(fullNames) > 0 {
		sort.SliceStable(fullNames, func(i, j int) bool {
			return len(splitWords(fullNames[i])) > len(splitWords(fullNames[j]))
		})
		return fullNames[0]
	}

	best := strings.ToLower(matches[0])
	if len(splitWords(best)) >= len(words) {
		return canonicalizeSuffixes(best)
	}

	return normalized
}

// canonicalizeSuffixes rewrites a trailing name suffix to its canonical
// form ("John Smith Jr" and "john smith, jr." both end in "junior") and
// rewrites bare jr/sr tokens elsewhere in the string too.
func canonicalizeSuffixes(query string) string {
	query = nameSuffixes.ReplaceAllStringFunc(query, func(m string) string {
		suffix := strings.Trim(strings.ToLower(m), " ,.")
		switch suffix {
		case "jr":
			suffix = "junior"
		case "sr":
			suffix = "senior"
		}
		return " " + suffix
	})
	query = bareSuffix.ReplaceAllStringFunc(query, func(m string) string {
		if strings.EqualFold(m, "jr") {
			return "junior"
		}
		return "senior"
	})
	return strings.TrimSpace(query)
}

func splitWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}
