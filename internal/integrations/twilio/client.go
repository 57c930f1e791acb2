package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// credentialsPayload is the expected JSON shape stored in SSM for the
// Twilio account credentials.
type credentialsPayload struct {
	AccountSID string `json:"accountSid"`
	AuthToken  string `json:"authToken"`
	FromNumber string `json:"fromNumber"`
}

// messageResponse is the minimal response shape returned by the Twilio
// Messages endpoint.
type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// apiErrorBody is the error shape Twilio returns on non-2xx responses.
type apiErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// APIError captures a per-message rejection from the provider.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("twilio: message rejected (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("twilio: unexpected status %d", e.StatusCode)
}

func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused Twilio client for the Messages endpoint.
// Credentials are fetched from SSM on first use and reused for the
// lifetime of the process.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	getter      Getter
	paramPrefix string

	credsOnce sync.Once
	creds     credentialsPayload
	credsErr  error
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client backed by the given paramstore.Getter
// for credential retrieval.
func NewClient(ps Getter, paramPrefix string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("twilio: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("twilio: parameter prefix must not be empty")
	}
	c := &Client{
		baseURL:     "https://api.twilio.com",
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		getter:      ps,
		paramPrefix: paramPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveCredentials fetches account credentials from SSM on the first
// call and returns the cached result on every subsequent call within the
// same process lifetime.
func (c *Client) resolveCredentials(ctx context.Context) (credentialsPayload, error) {
	c.credsOnce.Do(func() {
		c.creds, c.credsErr = fetchCredentialsFromParamStore(ctx, c.getter, c.credentialsParameterName())
	})
	return c.creds, c.credsErr
}

func (c *Client) credentialsParameterName() string {
	return c.paramPrefix + "/twilio-credentials"
}

// Ready forces credential resolution so that a dispatch batch can fail
// fast before any per-recipient attempt.
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.resolveCredentials(ctx)
	return err
}

// FromNumber returns the resolved sender identity.
func (c *Client) FromNumber(ctx context.Context) (string, error) {
	creds, err := c.resolveCredentials(ctx)
	if err != nil {
		return "", err
	}
	return creds.FromNumber, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func messagesURL(baseURL, accountSID string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = "https://api.twilio.com"
	}
	return base + "/2010-04-01/Accounts/" + accountSID + "/Messages.json"
}

// Send submits one outbound message and returns the provider message SID.
// Rejections surface as *APIError; they are per-message failures and
// never indicate an account-level problem.
func (c *Client) Send(ctx context.Context, to, from, body string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", errors.New("twilio: recipient must not be empty")
	}

	creds, err := c.resolveCredentials(ctx)
	if err != nil {
		return "", err
	}
	if from == "" {
		from = creds.FromNumber
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	endpoint := messagesURL(c.baseURL, creds.AccountSID)
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if reqErr != nil {
		return "", fmt.Errorf("twilio: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(creds.AccountSID, creds.AuthToken)

	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return "", fmt.Errorf("twilio: request failed: %w", doErr)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		apiErr := &APIError{StatusCode: res.StatusCode}
		var parsed apiErrorBody
		if json.Unmarshal(buf, &parsed) == nil {
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Message
		}
		return "", apiErr
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("twilio: read response body: %w", err)
	}
	var payload messageResponse
	if decErr := json.Unmarshal(buf, &payload); decErr != nil {
		return "", fmt.Errorf("twilio: decode response: %w", decErr)
	}
	if payload.SID == "" {
		return "", errors.New("twilio: no message sid in response")
	}
	return payload.SID, nil
}

func fetchCredentialsFromParamStore(ctx context.Context, getter Getter, name string) (credentialsPayload, error) {
	if getter == nil {
		return credentialsPayload{}, errors.New("twilio: paramstore getter is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return credentialsPayload{}, errors.New("twilio: credentials parameter name is empty")
	}

	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return credentialsPayload{}, fmt.Errorf("twilio: fetch credentials from paramstore: %w", err)
	}
	var creds credentialsPayload
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return credentialsPayload{}, fmt.Errorf("twilio: unmarshal paramstore credentials as JSON: %w", err)
	}
	if strings.TrimSpace(creds.AccountSID) == "" {
		return credentialsPayload{}, errors.New("twilio: account sid is empty")
	}
	if strings.TrimSpace(creds.AuthToken) == "" {
		return credentialsPayload{}, errors.New("twilio: auth token is empty")
	}
	if strings.TrimSpace(creds.FromNumber) == "" {
		return credentialsPayload{}, errors.New("twilio: from number is empty")
	}
	return creds, nil
}
