package risk

import (
	"errors"
	"strings"

	"safelens/internal/domain"
)

// Label thresholds, inclusive lower bounds.
const (
	highRiskThreshold = 6.0
	warningThreshold  = 4.0
)

// Classifier scores free text against a fixed lexicon. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	lexicon Lexicon
}

// NewClassifier creates a Classifier over the given lexicon.
func NewClassifier(lexicon Lexicon) (*Classifier, error) {
	if len(lexicon) == 0 {
		return nil, errors.New("risk: lexicon must not be empty")
	}
	return &Classifier{lexicon: lexicon}, nil
}

// Classify scores text and derives a risk label. It is total: any input,
// including the empty string, yields a well-formed assessment. Each
// lexicon phrase contributes its weight at most once per call (presence,
// not frequency); overlapping phrases are independent entries and both
// contribute when both are present.
func (c *Classifier) Classify(text string) domain.RiskAssessment {
	lowered := strings.ToLower(text)

	score := 0.0
	matches := make([]domain.Match, 0, 4)
	for _, cat := range c.lexicon {
		for _, p := range cat.Phrases {
			if strings.Contains(lowered, p.Text) {
				score += p.Weight
				matches = append(matches, domain.Match{Phrase: p.Text, Weight: p.Weight})
			}
		}
	}

	return domain.RiskAssessment{
		Score:   score,
		Label:   labelFor(score),
		Matches: matches,
	}
}

func labelFor(score float64) string {
	switch {
	case score >= highRiskThreshold:
		return domain.LabelHighRisk
	case score >= warningThreshold:
		return domain.LabelWarning
	default:
		return domain.LabelSafe
	}
}
