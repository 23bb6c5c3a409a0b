// Package client talks to the services that turn extracted text into
// summaries: the remote text-processing API, the local file-processing
// server and OpenAI-compatible chat endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAPIURL is the hosted text-processing API.
const DefaultAPIURL = "https://summabrowser-api.onrender.com"

// Summary kinds sent with summarize requests
const (
	KindSelection = "selection"
	KindPage      = "page"
)

// Summary lengths
const (
	LengthBrief    = "brief"
	LengthDetailed = "detailed"
)

// Actions understood by the text-processing endpoint
const (
	actionSummarize = "summarize"
	actionAnalyze   = "analyze"
)

var (
	// ErrEmptyText is returned when there is nothing to send.
	ErrEmptyText = errors.New("no text to process")
	// ErrEmptyResponse is returned when the service answered without a result.
	ErrEmptyResponse = errors.New("service returned an empty result")
)

// Summarizer produces summaries and analyses of text.
type Summarizer interface {
	Summarize(ctx context.Context, text, kind, length string) (string, error)
	Analyze(ctx context.Context, text string) (string, error)
}

// API is a client for the remote text-processing service.
type API struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	// Limiter throttles outgoing requests. Nil means unlimited.
	Limiter *rate.Limiter
}

// NewAPI creates an API client. An empty baseURL selects DefaultAPIURL and
// a non-positive rps disables rate limiting.
func NewAPI(baseURL string, timeout time.Duration, rps float64) *API {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &API{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Limiter:    limiter,
	}
}

// ProcessRequest is the body of a text-processing call.
type ProcessRequest struct {
	Text   string `json:"text"`
	Type   string `json:"type,omitempty"`
	Length string `json:"length,omitempty"`
	Action string `json:"action"`
}

// ProcessResponse is the body returned by the text-processing endpoint.
type ProcessResponse struct {
	Summary  string `json:"summary,omitempty"`
	Analysis string `json:"analysis,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Summarize asks the service for a summary of text. kind tells the service
// whether the text is a selection or a whole page.
func (a *API) Summarize(ctx context.Context, text, kind, length string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if length == "" {
		length = LengthBrief
	}
	resp, err := a.process(ctx, ProcessRequest{Text: text, Type: kind, Length: length, Action: actionSummarize})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if resp.Summary == "" {
		return "", fmt.Errorf("summarize: %w", ErrEmptyResponse)
	}
	return resp.Summary, nil
}

// Analyze asks the service for a content analysis of text.
func (a *API) Analyze(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	resp, err := a.process(ctx, ProcessRequest{Text: text, Action: actionAnalyze})
	if err != nil {
		return "", fmt.Errorf("analyze: %w", err)
	}
	if resp.Analysis == "" {
		return "", fmt.Errorf("analyze: %w", ErrEmptyResponse)
	}
	return resp.Analysis, nil
}

// Health queries the service health endpoint.
func (a *API) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/health", nil)
	if err != nil {
		return status, err
	}
	if err := a.do(req, &status); err != nil {
		return status, fmt.Errorf("health: %w", err)
	}
	return status, nil
}

func (a *API) process(ctx context.Context, body ProcessRequest) (ProcessResponse, error) {
	var out ProcessResponse

	payload, err := json.Marshal(body)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/process-text", bytes.NewReader(payload))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := a.do(req, &out); err != nil {
		return out, err
	}
	if out.Error != "" {
		return out, &ServiceError{Message: out.Error}
	}
	return out, nil
}

func (a *API) do(req *http.Request, out any) error {
	if a.Limiter != nil {
		if err := a.Limiter.Wait(req.Context()); err != nil {
			return err
		}
	}
	if a.UserAgent != "" {
		req.Header.Set("User-Agent", a.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(a.HTTPClient).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// ServiceError is an error reported by a remote service, either in an error
// field of a JSON body or through a non-2xx status.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return "service error: " + e.Message
	}
	if e.Message == "" {
		return fmt.Sprintf("service error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("service error: HTTP %d: %s", e.StatusCode, e.Message)
}

// decodeResponse decodes a JSON body into out, turning non-2xx statuses
// into a ServiceError carrying the body's error field when present.
func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		return &ServiceError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

const maxResponseBytes = 8 << 20

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
