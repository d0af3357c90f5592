// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero is a client for the Zotero Web API (v3) scoped to one
// user library: list, fetch, create, and update items.
package zotero

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/pdiddy/zotero-cli/internal/httputil"
	"github.com/pdiddy/zotero-cli/pkg/types"
)

const (
	// DefaultBaseURL is the public Web API root.
	DefaultBaseURL = "https://api.zotero.org"

	apiVersion = "3"

	headerAPIKey     = "Zotero-API-Key"
	headerAPIVersion = "Zotero-API-Version"
	headerWriteToken = "Zotero-Write-Token"
	headerIfVersion  = "If-Unmodified-Since-Version"
	headerTotal      = "Total-Results"
)

// Client sends requests for a single user library.
type Client struct {
	http       *http.Client
	baseURL    string
	userID     string
	apiKey     string
	userAgent  string
	maxRetries int
	logger     hclog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l hclog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMaxRetries sets how often a rate-limited request is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient returns a client for the library described by cfg. It fails with
// ErrMissingCredentials when the user ID or API key is empty.
func NewClient(cfg types.ClientConfig, opts ...Option) (*Client, error) {
	if cfg.UserID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: user ID and API key are required", ErrMissingCredentials)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   baseURL,
		userID:    cfg.UserID,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one API call relative to the library root.
type request struct {
	method  string
	path    string
	query   url.Values
	body    []byte
	headers map[string]string
}

// do sends r and returns the response status, headers, and body. Non-2xx
// responses are returned as *APIError.
func (c *Client) do(ctx context.Context, r request) (int, http.Header, []byte, error) {
	u := c.baseURL + "/users/" + url.PathEscape(c.userID) + r.path
	q := r.query
	if q == nil {
		q = url.Values{}
	}
	q.Set("format", "json")
	u += "?" + q.Encode()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerAPIVersion, apiVersion)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries, c.logger)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("zotero API request %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("request", "method", r.method, "path", r.path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, resp.Header, data, newAPIError(resp.StatusCode, data)
	}
	return resp.StatusCode, resp.Header, data, nil
}
