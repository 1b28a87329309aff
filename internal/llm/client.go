package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/council-ai/council/internal/errors"
)

const (
	// DefaultBaseURL targets the Groq OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the council's standard chat model.
	DefaultModel = "llama-3.3-70b-versatile"

	maxRetries = 3
)

// Client is a minimal OpenAI-compatible chat completion client.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	backoffFunc func(attempt int) time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithModel overrides the default chat model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// withBackoff is for tests that cannot afford real delays.
func withBackoff(f func(int) time.Duration) Option {
	return func(c *Client) { c.backoffFunc = f }
}

func defaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// NewClient creates a Client for the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		backoffFunc: defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured chat model.
func (c *Client) Model() string { return c.model }

// ChatCompletion sends one completion request, retrying rate limits and
// server errors with backoff.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	resp, err := c.doWithRetry(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("llm: %w: response has no choices", errors.ErrGenerationFailed)
	}
	return &chatResp, nil
}

// Complete is the single-string convenience over ChatCompletion.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	resp, err := c.ChatCompletion(ctx, ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func (c *Client) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoffFunc(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		msg := errorMessage(respBody, resp.StatusCode)
		if !retryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("llm: %s", msg)
		}
		lastErr = fmt.Errorf("llm: %s", msg)
	}
	return nil, lastErr
}

// errorMessage prefers the server's structured error over the raw body.
func errorMessage(body []byte, status int) string {
	var env apiError
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return fmt.Sprintf("status %d: %s", status, env.Error.Message)
	}
	return fmt.Sprintf("unexpected status %d: %s", status, string(body))
}
