package analyze

import (
	"strings"
	"testing"

	"github.com/episteme-app/episteme/internal/model"
)

func findingWords(report model.BiasReport) map[string]bool {
	words := make(map[string]bool)
	for _, f := range report.BiasWordsFound {
		words[f.Word] = true
	}
	return words
}

func TestBiasAnalyzer_EmptyContent(t *testing.T) {
	a := NewBiasAnalyzer()
	report := a.Analyze("")

	if report.BiasScore != 0 {
		t.Errorf("expected bias score 0 for empty content, got %v", report.BiasScore)
	}
	if report.ConfidenceScore != 0 {
		t.Errorf("expected confidence 0 for empty content, got %v", report.ConfidenceScore)
	}
	if report.Summary != "No content to analyze" {
		t.Errorf("unexpected summary: %q", report.Summary)
	}
	if report.Error != "" {
		t.Errorf("expected no error, got %q", report.Error)
	}
}

func TestBiasAnalyzer_NeutralContent(t *testing.T) {
	a := NewBiasAnalyzer()
	content := "The company was founded in 2015. It has offices in three countries and, according to its filings, employs 1,200 people."

	report := a.Analyze(content)

	if report.TotalBiasWords != 0 {
		t.Errorf("expected 0 bias words, got %d: %v", report.TotalBiasWords, report.BiasWordsFound)
	}
	if report.BiasScore >= 0.2 {
		t.Errorf("expected bias score < 0.2 for neutral content, got %v", report.BiasScore)
	}
	if report.ConfidenceScore != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", report.ConfidenceScore)
	}
	if report.Summary != "Very neutral and factual tone" {
		t.Errorf("unexpected summary: %q", report.Summary)
	}
	if report.NeutralWords == 0 {
		t.Error("expected neutral words to be counted")
	}
}

func TestBiasAnalyzer_FactualOverride(t *testing.T) {
	a := NewBiasAnalyzer()

	report := a.Analyze("Many consider him one of the greatest players of all time.")
	if findingWords(report)["greatest"] {
		t.Error("expected greatest suppressed in factual context")
	}

	report = a.Analyze("This is the greatest disaster in company history.")
	words := findingWords(report)
	if !words["greatest"] {
		t.Error("expected greatest flagged outside factual framing")
	}
	if !words["disaster"] {
		t.Error("expected disaster flagged")
	}
}

func TestBiasAnalyzer_OpinionSuppressedInFactualContext(t *testing.T) {
	a := NewBiasAnalyzer()

	// "reportedly" next to an award mention is a factual context
	report := a.Analyze("She reportedly received the award for her research in 2019.")
	if findingWords(report)["reportedly"] {
		t.Error("expected opinion marker suppressed in factual context")
	}

	// The same marker without factual framing counts
	report = a.Analyze("She is reportedly very difficult to work with.")
	if !findingWords(report)["reportedly"] {
		t.Error("expected opinion marker flagged outside factual context")
	}
}

func TestBiasAnalyzer_LoadedWordsNotOverridden(t *testing.T) {
	a := NewBiasAnalyzer()

	// Non-superlative loaded words count even in factual contexts
	report := a.Analyze("The amazing product won an award after it was invented in 2020.")
	if !findingWords(report)["amazing"] {
		t.Error("expected amazing flagged despite factual context")
	}
}

func TestBiasAnalyzer_DedupeByWord(t *testing.T) {
	a := NewBiasAnalyzer()
	report := a.Analyze("Amazing work. Simply amazing. Truly amazing people doing amazing things.")

	count := 0
	for _, f := range report.BiasWordsFound {
		if f.Word == "amazing" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected 1 finding for repeated word, got %d", count)
	}
}

func TestBiasAnalyzer_Calibration(t *testing.T) {
	a := NewBiasAnalyzer()

	report := a.Analyze("An amazing and terrible performance.")
	if report.TotalBiasWords != 2 {
		t.Fatalf("expected 2 bias words, got %d: %v", report.TotalBiasWords, report.BiasWordsFound)
	}
	if report.ConfidenceScore != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", report.ConfidenceScore)
	}
	if report.BiasScore != 0.3 {
		t.Errorf("expected bias score 0.3, got %v", report.BiasScore)
	}
}

func TestBiasAnalyzer_ConfidenceFloor(t *testing.T) {
	a := NewBiasAnalyzer()

	// Far more than enough distinct words to hit the floor
	content := "amazing incredible fantastic brilliant excellent outstanding " +
		"terrible awful horrible dreadful useless pathetic"
	report := a.Analyze(content)

	if report.ConfidenceScore != 0.1 {
		t.Errorf("expected confidence floored at 0.1, got %v", report.ConfidenceScore)
	}
	if report.BiasScore != 0.9 {
		t.Errorf("expected bias score 0.9 at floor, got %v", report.BiasScore)
	}
	if report.Summary != "Highly biased content" {
		t.Errorf("unexpected summary: %q", report.Summary)
	}
}

func TestBiasAnalyzer_Monotonicity(t *testing.T) {
	a := NewBiasAnalyzer()

	content := "The building opened last week."
	prev := a.Analyze(content)

	for _, word := range []string{"amazing", "terrible", "pathetic", "legendary"} {
		content = content + " It is " + word + "."
		report := a.Analyze(content)
		if report.ConfidenceScore > prev.ConfidenceScore {
			t.Errorf("confidence rose from %v to %v after adding %q",
				prev.ConfidenceScore, report.ConfidenceScore, word)
		}
		prev = report
	}
}

func TestBiasAnalyzer_FactualClaims(t *testing.T) {
	a := NewBiasAnalyzer()
	content := "The company was founded in 2015. It raised $40,000,000 in funding. " +
		"It employs 1,200 people. Revenue grew in 2021. It expanded in 2022. " +
		"A new office opened in 2023."

	report := a.Analyze(content)

	if report.TotalClaims != 6 {
		t.Errorf("expected 6 total claims, got %d", report.TotalClaims)
	}
	if len(report.FactualClaims) != 5 {
		t.Errorf("expected claims capped at 5, got %d", len(report.FactualClaims))
	}
	if !strings.Contains(report.FactualClaims[0], "2015") {
		t.Errorf("expected first claim to mention 2015, got %q", report.FactualClaims[0])
	}
}

func TestBiasAnalyzer_SuspiciousPatterns(t *testing.T) {
	a := NewBiasAnalyzer()
	content := "Everyone should always trust this. It clearly made $5 billion, allegedly."

	report := a.Analyze(content)

	expected := []string{
		"Absolutist language",
		"Certainty claims",
		"Unverified claims",
		"Prescriptive language",
		"Specific numbers",
	}
	got := make(map[string]bool)
	for _, name := range report.SuspiciousPatterns {
		got[name] = true
	}
	for _, name := range expected {
		if !got[name] {
			t.Errorf("expected suspicious pattern %q, got %v", name, report.SuspiciousPatterns)
		}
	}
}

func TestBiasAnalyzer_ContextWindow(t *testing.T) {
	a := NewBiasAnalyzer()
	report := a.Analyze("Some people say the launch was terrible for morale across the whole organization.")

	if len(report.BiasWordsFound) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(report.BiasWordsFound))
	}
	finding := report.BiasWordsFound[0]
	if !strings.Contains(finding.Context, "terrible") {
		t.Errorf("expected context to contain the match, got %q", finding.Context)
	}
	if finding.Category != model.BiasNegative {
		t.Errorf("expected negative category, got %q", finding.Category)
	}
}
