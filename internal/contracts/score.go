package contracts

import "strings"

// ReasonSeparator joins reason tags in the reasoning string
const ReasonSeparator = "; "

// ScoreResult is the output of a scorer: a 0-100 score and the tags
// that explain it, most significant first
type ScoreResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Reasoning joins the reason tags into a single string
func (r ScoreResult) Reasoning() string {
	return strings.Join(r.Reasons, ReasonSeparator)
}

// NewScoreResult builds a result with the score clamped to [0, 100]
func NewScoreResult(score int, reasons ...string) ScoreResult {
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	if reasons == nil {
		reasons = []string{}
	}
	return ScoreResult{Score: score, Reasons: reasons}
}

// ScanResult is the composite scan verdict for a symbol, carrying the
// price it was judged at and its action label
type ScanResult struct {
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	Recommendation string  `json:"recommendation"`
	ScoreResult
}
