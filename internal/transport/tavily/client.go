// Package tavily adapts the Tavily web search API behind the pipeline's
// search contract. The response body is passed through opaquely; synthesis
// consumes it as-is, so no result schema is owned here.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/domain"
)

const searchPath = "/search"

// Client calls the Tavily search API.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	logger     *zap.Logger
}

// Config holds the search adapter settings.
type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New creates a Tavily client.
func New(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		http:       httpClient,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		logger:     cfg.Logger,
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Search runs one web search. Failures of any kind (transport, auth,
// rate limit, non-2xx) are wrapped with domain.ErrSearchUnavailable so the
// fan-out coordinator can degrade that sub-question to an empty bundle.
func (c *Client) Search(ctx context.Context, query string) (domain.SearchBundle, error) {
	body, err := json.Marshal(searchRequest{Query: query, MaxResults: c.maxResults})
	if err != nil {
		return domain.SearchBundle{}, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return domain.SearchBundle{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.SearchBundle{}, fmt.Errorf("search %q: %v: %w", query, err, domain.ErrSearchUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SearchBundle{}, fmt.Errorf("read search response: %w", domain.ErrSearchUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.SearchBundle{}, fmt.Errorf(
			"search API status %d: %s: %w", resp.StatusCode, truncate(raw, 200), domain.ErrSearchUnavailable)
	}

	return domain.SearchBundle{Query: query, Raw: raw}, nil
}

// HealthCheck verifies the adapter is configured; Tavily has no free ping
// endpoint, so only key presence is checked.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("search api key is not configured")
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
