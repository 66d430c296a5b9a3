// Package api provides the REST client for the budgeting backend.
package api

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

	"github.com/budgie-app/budgie/internal/model"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	userAgent      = "budgie/1.0"
)

// Client talks to list endpoints following the page/page_size/ordering
// convention. It never retries; callers re-trigger failed actions.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for baseURL. token may be empty.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		timeout: defaultTimeout,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches one page of endpoint with the given query parameters.
func (c *Client) List(ctx context.Context, endpoint string, params url.Values) (model.Page, error) {
	u := c.resolve(endpoint, "")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var page model.Page
	if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
		return model.Page{}, err
	}
	if page.Results == nil {
		page.Results = []model.Row{}
	}
	return page, nil
}

// Create posts a new row and returns the persisted row.
func (c *Client) Create(ctx context.Context, endpoint string, payload map[string]any) (model.Row, error) {
	var row model.Row
	if err := c.do(ctx, http.MethodPost, c.resolve(endpoint, ""), payload, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// Update patches the row with the given id. The id is also sent in the body.
func (c *Client) Update(ctx context.Context, endpoint, id string, payload map[string]any) (model.Row, error) {
	var row model.Row
	if err := c.do(ctx, http.MethodPatch, c.resolve(endpoint, id), payload, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes the row with the given id.
func (c *Client) Delete(ctx context.Context, endpoint, id string) error {
	return c.do(ctx, http.MethodDelete, c.resolve(endpoint, id), nil, nil)
}

// resolve joins the base URL, endpoint and optional id with trailing slashes.
// Absolute endpoints are used as-is.
func (c *Client) resolve(endpoint, id string) string {
	var u string
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		u = strings.TrimRight(endpoint, "/")
	} else {
		u = c.baseURL + "/" + strings.Trim(endpoint, "/")
	}
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u + "/"
}

func (c *Client) do(ctx context.Context, method, u string, payload any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug().
		Str("component", "api").
		Str("method", method).
		Str("url", u).
		Msg("making HTTP request")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Str("component", "api").Str("url", u).Err(err).Msg("HTTP request failed")
		return fmt.Errorf("api: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("api: reading response: %w", err)
	}

	log.Debug().
		Str("component", "api").
		Int("status_code", resp.StatusCode).
		Int("body_length", len(data)).
		Msg("received HTTP response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("api: parsing response: %w", err)
	}
	return nil
}
