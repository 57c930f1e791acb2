package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"safelens/internal/domain"
	"safelens/internal/usecase"
)

// Analyzer is the text-analysis entry point consumed by the handler.
type Analyzer interface {
	Analyze(ctx context.Context, in usecase.AnalyzeInput) (domain.RiskAssessment, error)
}

// Alerter is the alert-trigger and contact-settings entry point.
type Alerter interface {
	Trigger(ctx context.Context, in usecase.AlertInput) (domain.DispatchResult, error)
	SaveContact(ctx context.Context, in usecase.SaveContactInput) (domain.Contact, error)
	ListContacts(ctx context.Context, userID string) ([]domain.Contact, error)
}

// Handler routes API Gateway events to the analyze and alert services.
type Handler struct {
	analyzer Analyzer
	alerter  Alerter
}

func NewHandler(analyzer Analyzer, alerter Alerter) (*Handler, error) {
	if analyzer == nil {
		return nil, errors.New("handler: analyzer must not be nil")
	}
	if alerter == nil {
		return nil, errors.New("handler: alerter must not be nil")
	}
	return &Handler{analyzer: analyzer, alerter: alerter}, nil
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Analysis domain.RiskAssessment `json:"analysis"`
}

type alertRequest struct {
	Recipients     []string `json:"recipients"`
	UserID         string   `json:"userId"`
	TriggerMessage string   `json:"triggerMessage"`
}

type contactRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

type contactResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

type contactListResponse struct {
	Contacts []contactResponse `json:"contacts"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Handle is the Lambda entry point for all routes.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)

	switch {
	case event.HTTPMethod == http.MethodGet && event.Path == "/":
		return respond(http.StatusOK, statusResponse{Status: "SafeLens API is running"}, corrID), nil
	case event.HTTPMethod == http.MethodPost && event.Path == "/analyze-text":
		return h.handleAnalyze(ctx, event, corrID), nil
	case event.HTTPMethod == http.MethodPost && event.Path == "/send-alert":
		return h.handleAlert(ctx, event, corrID), nil
	case event.HTTPMethod == http.MethodPost && event.Path == "/contacts":
		return h.handleSaveContact(ctx, event, corrID), nil
	case event.HTTPMethod == http.MethodGet && event.Path == "/contacts":
		return h.handleListContacts(ctx, event, corrID), nil
	default:
		return respond(http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}, corrID), nil
	}
}

func (h *Handler) handleAnalyze(ctx context.Context, event events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	var req analyzeRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return respond(http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput), Reason: "malformed_body"}, corrID)
	}

	assessment, err := h.analyzer.Analyze(ctx, usecase.AnalyzeInput{Text: req.Text})
	if err != nil {
		return errorToResponse(err, corrID)
	}
	assessment.Score = roundScore(assessment.Score)
	return respond(http.StatusOK, analyzeResponse{Analysis: assessment}, corrID)
}

func (h *Handler) handleAlert(ctx context.Context, event events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	var req alertRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return respond(http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput), Reason: "malformed_body"}, corrID)
	}

	result, err := h.alerter.Trigger(ctx, usecase.AlertInput{
		Recipients:     req.Recipients,
		UserID:         req.UserID,
		TriggerMessage: req.TriggerMessage,
	})
	if err != nil {
		return errorToResponse(err, corrID)
	}
	// Channel-initialization failure is the operation-level failure mode;
	// per-recipient failures ride inside a 200.
	if result.Status == domain.DispatchError {
		return respond(http.StatusBadGateway, result, corrID)
	}
	return respond(http.StatusOK, result, corrID)
}

func (h *Handler) handleSaveContact(ctx context.Context, event events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	var req contactRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return respond(http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput), Reason: "malformed_body"}, corrID)
	}

	contact, err := h.alerter.SaveContact(ctx, usecase.SaveContactInput{UserID: req.UserID, Name: req.Name, Phone: req.Phone})
	if err != nil {
		return errorToResponse(err, corrID)
	}
	return respond(http.StatusCreated, contactResponse{UserID: contact.UserID, Name: contact.Name, Phone: contact.Phone}, corrID)
}

func (h *Handler) handleListContacts(ctx context.Context, event events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	contacts, err := h.alerter.ListContacts(ctx, event.QueryStringParameters["userId"])
	if err != nil {
		return errorToResponse(err, corrID)
	}
	out := contactListResponse{Contacts: make([]contactResponse, 0, len(contacts))}
	for _, c := range contacts {
		out.Contacts = append(out.Contacts, contactResponse{UserID: c.UserID, Name: c.Name, Phone: c.Phone})
	}
	return respond(http.StatusOK, out, corrID)
}

// errorToResponse maps usecase error codes to HTTP statuses. Unknown
// errors are reported as internal without leaking details.
func errorToResponse(err error, corrID string) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		status := http.StatusInternalServerError
		switch ucErr.Code {
		case usecase.ErrorInvalidInput:
			status = http.StatusBadRequest
		case usecase.ErrorUpstream:
			status = http.StatusBadGateway
		}
		return respond(status, errorResponse{Error: string(ucErr.Code), Reason: ucErr.Reason}, corrID)
	}
	slog.Error("unexpected handler error", "err", err)
	return respond(http.StatusInternalServerError, errorResponse{Error: string(usecase.ErrorInternal)}, corrID)
}

func respond(status int, body any, corrID string) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		slog.Error("failed to marshal response body", "err", err)
		raw = []byte(`{"error":"INTERNAL_ERROR"}`)
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":     "application/json",
			"X-Correlation-Id": corrID,
		},
		Body: string(raw),
	}
}

// correlationID echoes a caller-provided id (header name matched
// case-insensitively) or generates a fresh one.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "x-correlation-id") && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return uuid.NewString()
}

// roundScore rounds to one decimal for presentation; labels are derived
// from the raw score before rounding.
func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}
