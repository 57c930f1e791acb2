package domain

// Match is a single lexicon phrase found in the analyzed text, with the
// weight it contributed to the score.
type Match struct {
	Phrase string  `json:"phrase"`
	Weight float64 `json:"weight"`
}

// RiskAssessment is the classifier's verdict for one piece of text.
// Matches are reported in lexicon order, not text order.
type RiskAssessment struct {
	Score   float64 `json:"score"`
	Label   string  `json:"label"`
	Matches []Match `json:"matches"`
}

// Risk labels. Thresholds live in the classifier.
const (
	LabelSafe     = "Safe"
	LabelWarning  = "Warning"
	LabelHighRisk = "High Risk"
)
