package model

// BiasCategory classifies a bias vocabulary word
type BiasCategory string

const (
	BiasPositive BiasCategory = "positive" // Loaded praise (amazing, legendary, ...)
	BiasNegative BiasCategory = "negative" // Loaded criticism (terrible, disaster, ...)
	BiasOpinion  BiasCategory = "opinion"  // Opinion markers (clearly, should, allegedly, ...)
)

// BiasFinding is a single deduplicated occurrence of a weighted vocabulary
// word, annotated with category and surrounding context. A content span
// produces at most one finding per distinct word.
type BiasFinding struct {
	Word     string       `json:"word"`
	Category BiasCategory `json:"category"`
	Context  string       `json:"context,omitempty"` // Fixed-width window around the match
}

// BiasReport is the fact-check verdict for one article text. Computed fresh
// per text and never mutated afterwards.
//
// Calibration: ConfidenceScore = max(0.1, 1 - 0.15*distinct bias words) and
// BiasScore = 1 - ConfidenceScore. Confidence is monotonically non-increasing
// in the distinct-bias-word count and never drops below the 0.1 floor.
type BiasReport struct {
	BiasScore          float64       `json:"bias_score"`       // 0.0 (neutral) - 1.0 (heavily biased)
	BiasWordsFound     []BiasFinding `json:"bias_words_found"` // Deduplicated by word
	TotalBiasWords     int           `json:"total_bias_words"`
	NeutralWords       int           `json:"neutral_words"`       // Distinct neutral-register words seen
	SuspiciousPatterns []string      `json:"suspicious_patterns"` // Rhetorical pattern names, presence flags
	FactualClaims      []string      `json:"factual_claims"`      // First 5 sentences with years/amounts
	TotalClaims        int           `json:"total_claims"`
	ConfidenceScore    float64       `json:"confidence_score"` // 1 - BiasScore, floored at 0.1
	Summary            string        `json:"summary"`          // Bucketed human-readable verdict
	Error              string        `json:"error,omitempty"`  // Set instead of panicking on internal faults
}

// ContentAnalysis holds shallow structural signals extracted from prose:
// proper names, date-like tokens and the word count.
type ContentAnalysis struct {
	Names     []string `json:"names"`
	Dates     []string `json:"dates"`
	WordCount int      `json:"word_count"`
	Error     string   `json:"error,omitempty"`
}
