package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"safelens/internal/domain"
)

type stubClassifier struct {
	out  domain.RiskAssessment
	text string
}

func (s *stubClassifier) Classify(text string) domain.RiskAssessment {
	s.text = text
	return s.out
}

func TestNewAnalyzeService_NilClassifier(t *testing.T) {
	_, err := NewAnalyzeService(nil, 0)
	require.Error(t, err)
}

func TestAnalyze_HappyPath(t *testing.T) {
	want := domain.RiskAssessment{
		Score:   4.5,
		Label:   domain.LabelWarning,
		Matches: []domain.Match{{Phrase: "hurt you", Weight: 3.0}, {Phrase: "stupid", Weight: 1.5}},
	}
	c := &stubClassifier{out: want}
	svc, err := NewAnalyzeService(c, 0)
	require.NoError(t, err)

	got, err := svc.Analyze(context.Background(), AnalyzeInput{Text: "You are stupid and I will hurt you"})
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, "You are stupid and I will hurt you", c.text)
}

func TestAnalyze_EmptyText(t *testing.T) {
	svc, err := NewAnalyzeService(&stubClassifier{}, 0)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), AnalyzeInput{Text: "   "})
	require.Error(t, err)

	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
	require.Equal(t, "empty_text", ucErr.Reason)
}

func TestAnalyze_TextTooLong(t *testing.T) {
	svc, err := NewAnalyzeService(&stubClassifier{}, 10)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), AnalyzeInput{Text: strings.Repeat("a", 11)})
	require.Error(t, err)

	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
	require.Equal(t, "text_too_long", ucErr.Reason)
}
