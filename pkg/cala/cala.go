// Package cala is a client for the Cala knowledge API, the experimental
// research backend. Kept behind RESEARCH_BACKEND=cala; Exa is the
// default.
package cala

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxResponseSizeBytes = 2 << 20

var (
	ErrRateLimited = errors.New("cala: rate limited")
	ErrTimeout     = errors.New("cala: request timed out")
)

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.cala.ai/v1/knowledge"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("cala: base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("cala: invalid base url: %w", err)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("cala: api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Entity is a resolved knowledge-graph entity.
type Entity struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type entitiesResponse struct {
	Entities []Entity `json:"entities"`
}

// EntitySearch returns the top entity matching name, or nil when the
// graph has no match.
func (c *Client) EntitySearch(ctx context.Context, name, entityType string) (*Entity, error) {
	endpoint := c.baseURL + "/entities?" + url.Values{
		"name":         {name},
		"entity_types": {entityType},
		"limit":        {"1"},
	}.Encode()

	var decoded entitiesResponse
	if err := c.get(ctx, endpoint, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Entities) == 0 {
		return nil, nil
	}
	entity := decoded.Entities[0]
	return &entity, nil
}

// GetEntity fetches the full profile for a known entity id.
func (c *Client) GetEntity(ctx context.Context, id int64) (*Entity, error) {
	var decoded Entity
	if err := c.get(ctx, c.baseURL+"/entities/"+strconv.FormatInt(id, 10), &decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

type knowledgeRequest struct {
	Input string `json:"input"`
}

type knowledgeResponse struct {
	Content string `json:"content"`
}

// KnowledgeSearch runs a free-text knowledge search and returns the
// aggregated content string, which may be empty.
func (c *Client) KnowledgeSearch(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("cala: query is empty")
	}

	payload, err := json.Marshal(knowledgeRequest{Input: query})
	if err != nil {
		return "", fmt.Errorf("cala: marshal knowledge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("cala: build knowledge request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var decoded knowledgeResponse
	if err := c.do(req, &decoded); err != nil {
		return "", err
	}
	return decoded.Content, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("cala: build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s", ErrTimeout, req.URL.Path)
		}
		return fmt.Errorf("cala: request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("cala: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, req.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("cala: status %d for %s: %s", resp.StatusCode, req.URL.Path, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("cala: decode response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
