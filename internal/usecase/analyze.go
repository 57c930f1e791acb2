package usecase

import (
	"context"
	"errors"
	"strings"

	"safelens/internal/domain"
)

const defaultMaxText = 2000

// Classifier is the risk engine consumed by AnalyzeService. It must be
// total over its input and safe for concurrent use.
type Classifier interface {
	Classify(text string) domain.RiskAssessment
}

// AnalyzeService validates inbound text and hands it to the classifier.
type AnalyzeService struct {
	classifier Classifier
	maxTextLen int
}

type AnalyzeInput struct {
	Text string
}

func NewAnalyzeService(c Classifier, maxTextLen int) (*AnalyzeService, error) {
	if c == nil {
		return nil, errors.New("usecase: classifier must not be nil")
	}
	if maxTextLen <= 0 {
		maxTextLen = defaultMaxText
	}
	return &AnalyzeService{classifier: c, maxTextLen: maxTextLen}, nil
}

// Analyze scores one piece of text. The classifier itself never fails;
// only boundary validation can reject a request.
func (s *AnalyzeService) Analyze(_ context.Context, in AnalyzeInput) (domain.RiskAssessment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return domain.RiskAssessment{}, newError(ErrorInvalidInput, "empty_text", nil)
	}
	if len(in.Text) > s.maxTextLen {
		return domain.RiskAssessment{}, newError(ErrorInvalidInput, "text_too_long", nil)
	}
	return s.classifier.Classify(in.Text), nil
}
