package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"replyterm/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// GeneratePath is resolved against the configured base URL.
	GeneratePath = "/api/email/generate"

	// RequestIDHeader correlates a client request with the service logs.
	RequestIDHeader = "X-Request-Id"
)

// ErrInvalidBaseURL is returned by NewClient for anything but an absolute http(s) URL.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// GenerateRequest is the JSON body of POST /api/email/generate.
type GenerateRequest struct {
	EmailContent string `json:"emailContent"`
	Tone         string `json:"tone"`
	ReplyHints   string `json:"replyHints"`
}

// ServiceError is a non-2xx answer from the generation service.
// Message is the "message" field of the error body, empty when absent.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generate: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("generate: status %d: %s", e.StatusCode, e.Message)
}

// Client posts drafts to the remote generation service.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient validates baseURL and builds a client for it. A nil httpClient
// gets a client without a timeout: requests resolve whenever the transport does.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := ValidateBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: strings.TrimRight(u.String(), "/") + GeneratePath,
		http:     httpClient,
		logger:   logger,
	}, nil
}

// ValidateBaseURL parses baseURL and accepts only absolute http(s) URLs.
func ValidateBaseURL(baseURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	return u, nil
}

// Endpoint is the absolute URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

// Generate sends one request for d and returns the reply text.
// Non-2xx answers come back as *ServiceError.
func (c *Client) Generate(ctx context.Context, d model.Draft) (string, error) {
	body, err := json.Marshal(GenerateRequest{
		EmailContent: d.EmailContent,
		Tone:         string(d.Tone),
		ReplyHints:   d.ReplyHints,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set(RequestIDHeader, reqID)

	log := c.logger.With(zap.String("request_id", reqID))
	log.Debug("posting draft",
		zap.String("endpoint", c.endpoint),
		zap.String("tone", string(d.Tone)),
		zap.Int("email_bytes", len(d.EmailContent)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", GeneratePath, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	log.Debug("response received", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return ReplyText(data), nil
}

// ReplyText turns a success body into display text. JSON string literals are
// unquoted, other JSON values are compacted, anything else is used verbatim.
func ReplyText(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return string(body)
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(body)
	}
	return buf.String()
}

// errorMessage pulls a string "message" field out of an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	s, _ := payload.Message.(string)
	return s
}
