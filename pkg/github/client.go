package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public GitHub REST API base URL.
	DefaultBaseURL = "https://api.github.com"

	userAgent  = "ProductDash-API"
	acceptType = "application/vnd.github.v3+json"
)

// Config holds GitHub API configuration.
type Config struct {
	BaseURL string
	Token   string
	Repo    string // owner/name
	Timeout time.Duration
	Debug   bool
}

// Client is a minimal HTTP client for the GitHub contents API of a single repository.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	repo       string
	debug      bool
}

// NewClient constructs a new GitHub client with sane defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.Token,
		repo:       cfg.Repo,
		debug:      cfg.Debug,
	}
}

// GetFile reads a file from the repository at the given ref (branch, tag or commit).
func (c *Client) GetFile(ctx context.Context, path, ref string) (*FileContent, error) {
	endpoint := c.contentsPath(path)
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}
	var resp FileContent
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PutFile creates or updates a file. SHA must carry the current blob sha when
// the file already exists; GitHub rejects the write otherwise.
func (c *Client) PutFile(ctx context.Context, path string, req *PutFileRequest) (*PutFileResponse, error) {
	var resp PutFileResponse
	if err := c.doRequest(ctx, http.MethodPut, c.contentsPath(path), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRateLimit returns the rate limit status of the configured token.
func (c *Client) GetRateLimit(ctx context.Context) (*RateLimitResponse, error) {
	var resp RateLimitResponse
	if err := c.doRequest(ctx, http.MethodGet, "/rate_limit", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) contentsPath(path string) string {
	return fmt.Sprintf("/repos/%s/contents/%s", c.repo, strings.TrimPrefix(path, "/"))
}

// doRequest performs the HTTP call with the fixed GitHub headers and decodes
// the JSON response into result. Non-2xx responses are returned as *APIError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	if c.debug {
		log.Debug().
			Str("method", method).
			Str("endpoint", c.baseURL+endpoint).
			Int("payload_bytes", len(payload)).
			Msg("[GITHUB] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptType)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Int("response_bytes", len(respBody)).
			Msg("[GITHUB] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if len(respBody) == 0 || result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
