package analyze

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/episteme-app/episteme/internal/model"
)

// biasVocabulary holds the weighted bias-indicator lexicons. Matching is
// case-insensitive whole-word.
var biasVocabulary = map[model.BiasCategory][]string{
	model.BiasPositive: {
		"amazing", "incredible", "fantastic", "brilliant", "excellent", "outstanding",
		"revolutionary", "groundbreaking", "remarkable", "magnificent", "superior",
		"best", "greatest", "perfect", "unparalleled", "legendary", "iconic",
	},
	model.BiasNegative: {
		"terrible", "awful", "horrible", "dreadful", "worst", "useless", "pathetic",
		"devastating", "disastrous", "inferior", "failed", "disaster", "catastrophic",
		"atrocious", "abysmal", "execrable",
	},
	model.BiasOpinion: {
		"believe", "opinion", "should", "must", "clearly", "obviously", "undoubtedly",
		"allegedly", "reportedly", "supposedly", "claim", "argued", "insists",
	},
}

// neutralWords is the neutral-register vocabulary counted as a counterweight
// signal in the report.
var neutralWords = map[string]bool{
	"is": true, "was": true, "were": true, "be": true, "have": true, "has": true,
	"do": true, "does": true, "did": true, "can": true, "could": true, "may": true,
	"might": true, "will": true, "would": true, "said": true, "according": true,
	"reported": true, "found": true, "noted": true, "observed": true,
	"documented": true, "described": true,
}

// superlatives are fully suppressed when their context window matches a
// factual-assertion pattern ("considered one of the greatest" is a factual
// claim about reputation, not editorializing).
var superlatives = map[string]bool{
	"best": true, "greatest": true, "worst": true, "top": true,
}

// factualPatterns recognize factual-assertion contexts around a matched
// bias word.
var factualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:one of|among|considered|regarded as|widely|universally|generally).*?(?:best|greatest|top)`),
	regexp.MustCompile(`(?i)(?:best|greatest|top).*?(?:of all time|ever|in history|in the world)`),
	regexp.MustCompile(`(?i)(?:record|award|championship|title|achievement|accomplishment)`),
	regexp.MustCompile(`(?i)(?:born|died|founded|established|created|invented).*?\d{4}`),
	regexp.MustCompile(`(?i)(?:statistics|data|research|study|survey|report).*?(?:show|indicate|demonstrate)`),
}

// rhetoricalPatterns are coarse presence flags reported by name, not count.
var rhetoricalPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"Absolutist language", regexp.MustCompile(`(?i)\b(all|every|never|always)\b`)},
	{"Certainty claims", regexp.MustCompile(`(?i)\b(clearly|obviously|undoubtedly)\b`)},
	{"Unverified claims", regexp.MustCompile(`(?i)\b(allegedly|supposedly|claimed)\b`)},
	{"Prescriptive language", regexp.MustCompile(`(?i)\b(should|must|ought)\b`)},
	{"Specific numbers", regexp.MustCompile(`\$[\d,]+|[\d,]+ million|[\d,]+ billion`)},
}

// claimPattern matches sentences carrying a 4-digit year, dollar amount or
// comma-grouped number.
var claimPattern = regexp.MustCompile(`[^.!?]*(?:\d{4}|\$[\d,]+|\d+(?:,\d{3})*)[^.!?]*[.!?]`)

const contextWindow = 50

// BiasAnalyzer scans prose for weighted bias vocabulary, opinion markers and
// factual-claim patterns. It holds only precompiled read-only state and is
// safe for concurrent use.
type BiasAnalyzer struct {
	wordPatterns map[model.BiasCategory]map[string]*regexp.Regexp
}

// NewBiasAnalyzer creates a new bias analyzer
func NewBiasAnalyzer() *BiasAnalyzer {
	patterns := make(map[model.BiasCategory]map[string]*regexp.Regexp, len(biasVocabulary))
	for category, words := range biasVocabulary {
		patterns[category] = make(map[string]*regexp.Regexp, len(words))
		for _, word := range words {
			patterns[category][word] = regexp.MustCompile(`(?i)\b` + word + `\b`)
		}
	}
	return &BiasAnalyzer{wordPatterns: patterns}
}

// Analyze produces a bias report for the given content. It never fails: empty
// input yields a zero report and internal faults degrade to a report carrying
// an Error string.
func (a *BiasAnalyzer) Analyze(content string) (report model.BiasReport) {
	defer func() {
		if r := recover(); r != nil {
			report = model.BiasReport{
				Summary: "Analysis failed",
				Error:   fmt.Sprintf("bias analysis: %v", r),
			}
		}
	}()

	if content == "" {
		return model.BiasReport{
			BiasWordsFound:     []model.BiasFinding{},
			SuspiciousPatterns: []string{},
			FactualClaims:      []string{},
			Summary:            "No content to analyze",
		}
	}

	findings := a.findBiasWords(content)

	var suspicious []string
	for _, rp := range rhetoricalPatterns {
		if rp.pattern.MatchString(content) {
			suspicious = append(suspicious, rp.name)
		}
	}

	claims := claimPattern.FindAllString(content, -1)
	totalClaims := len(claims)
	var factualClaims []string
	for _, claim := range claims {
		factualClaims = append(factualClaims, strings.TrimSpace(claim))
		if len(factualClaims) == 5 {
			break
		}
	}

	// Confidence drops 0.15 per distinct bias word, floored at 0.1. The bias
	// score is its complement, so both stay inside [0,1].
	confidence := math.Max(0.1, 1.0-float64(len(findings))*0.15)
	biasScore := 1.0 - confidence

	return model.BiasReport{
		BiasScore:          round2(biasScore),
		BiasWordsFound:     findings,
		TotalBiasWords:     len(findings),
		NeutralWords:       countNeutralWords(content),
		SuspiciousPatterns: suspicious,
		FactualClaims:      factualClaims,
		TotalClaims:        totalClaims,
		ConfidenceScore:    round2(confidence),
		Summary:            summarize(biasScore),
	}
}

// findBiasWords matches every vocabulary word against the content, applies
// the factual-override rule per occurrence and deduplicates by word.
func (a *BiasAnalyzer) findBiasWords(content string) []model.BiasFinding {
	var findings []model.BiasFinding

	for _, category := range []model.BiasCategory{model.BiasPositive, model.BiasNegative, model.BiasOpinion} {
		for _, word := range biasVocabulary[category] {
			pattern := a.wordPatterns[category][word]

			for _, loc := range pattern.FindAllStringIndex(content, -1) {
				context := contextAround(content, loc[0], loc[1])
				factual := isFactualContext(context)

				// Superlatives and opinion markers inside a factual context
				// are not counted as bias. Other loaded words still are.
				if factual && (superlatives[word] || category == model.BiasOpinion) {
					continue
				}

				findings = append(findings, model.BiasFinding{
					Word:     word,
					Category: category,
					Context:  context,
				})
				break // One finding per distinct word
			}
		}
	}

	return findings
}

// contextAround extracts a fixed-width window around a match
func contextAround(content string, start, end int) string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(content) {
		hi = len(content)
	}
	return content[lo:hi]
}

func isFactualContext(context string) bool {
	for _, pattern := range factualPatterns {
		if pattern.MatchString(context) {
			return true
		}
	}
	return false
}

// countNeutralWords counts distinct neutral-register words in the content
func countNeutralWords(content string) int {
	seen := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(content)) {
		clean := strings.Trim(word, ".,!?;:")
		if neutralWords[clean] {
			seen[clean] = true
		}
	}
	return len(seen)
}

// summarize buckets a bias score into a human-readable verdict
func summarize(biasScore float64) string {
	switch {
	case biasScore < 0.2:
		return "Very neutral and factual tone"
	case biasScore < 0.4:
		return "Mostly neutral with minor bias indicators"
	case biasScore < 0.6:
		return "Moderate bias detected"
	case biasScore < 0.8:
		return "Significant bias indicators present"
	default:
		return "Highly biased content"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
