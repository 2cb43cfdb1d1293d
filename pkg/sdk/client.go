// Package concierge is a minimal Go client for the concierge HTTP API.
package concierge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is the concierge SDK entry point.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client for the API at baseURL. apiKey may be empty when the
// server runs with authentication disabled.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Ask submits one question and returns the pipeline's answer.
func (c *Client) Ask(ctx context.Context, query string) (Answer, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return Answer{}, fmt.Errorf("marshal request: %w", err)
	}

	var out Answer
	if err := c.do(ctx, http.MethodPost, "/ask", bytes.NewReader(body), &out); err != nil {
		return Answer{}, err
	}
	return out, nil
}

// History returns the server's session transcript, oldest first.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var out struct {
		Items []HistoryEntry `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Health reports the server's component health. A degraded server answers
// 503 with the same body, so that status is not an error here.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
			return out, nil
		}
		return Health{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		// Decode the body anyway for endpoints that pair a status with a
		// structured payload (health).
		if out != nil {
			_ = json.Unmarshal(raw, out)
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
