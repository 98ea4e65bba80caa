package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 90 * time.Second

// Client talks to a signpost API server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a signpost API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a query through the recommendation pipeline.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	var resp SearchResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/search", req, &resp)
	return resp, err
}

// ListInterventions lists catalog records, optionally filtered by category
// and problem. limit <= 0 uses the server default.
func (c *Client) ListInterventions(
	ctx context.Context, category, problem string, limit int,
) ([]Intervention, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if problem != "" {
		q.Set("problem", problem)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/v1/interventions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []Intervention
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// GetIntervention fetches one catalog record by identifier.
func (c *Client) GetIntervention(ctx context.Context, id string) (Intervention, error) {
	var out Intervention
	err := c.do(ctx, http.MethodGet, "/api/v1/interventions/"+url.PathEscape(id), nil, &out)
	return out, err
}

// Categories lists the distinct intervention categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/api/v1/interventions/categories", nil, &out)
	return out, err
}

// Problems lists the distinct problem types.
func (c *Client) Problems(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/api/v1/interventions/problems", nil, &out)
	return out, err
}

// Health checks the health of all server components.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// ClearCache drops every cached search response on the server.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/cache", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("signpost: encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("signpost: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("signpost: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Health reports degraded state with 503 but still carries a body.
	if resp.StatusCode >= 400 && !(path == "/health" && resp.StatusCode == http.StatusServiceUnavailable) {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil || apiErr.Code == "" {
			apiErr.Code = "http_error"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("signpost: decode response: %w", err)
	}
	return nil
}
