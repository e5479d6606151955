// Package client reads the inspection API of a running velnode editor.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultEndpoint = "http://127.0.0.1:8091"

// ErrUnavailable is returned when the editor cannot be reached after all
// retries.
var ErrUnavailable = errors.New("client: editor unavailable")

// Client is the velnode inspection client.
type Client struct {
	endpoint    string
	http        *http.Client
	backoff     BackoffStrategy
	maxAttempts int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBackoff sets the retry strategy and attempt budget.
func WithBackoff(b BackoffStrategy, maxAttempts int) Option {
	return func(c *Client) {
		c.backoff = b
		c.maxAttempts = maxAttempts
	}
}

// NewClient creates a new client.
// endpoint defaults to "http://127.0.0.1:8091" if empty.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		backoff:     DefaultBackoff(),
		maxAttempts: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

// Ping checks the health of the editor.
func (c *Client) Ping(ctx context.Context) (Status, error) {
	var status Status
	err := c.getJSON(ctx, "/v1/health", &status)
	return status, err
}

// Templates lists the node catalog.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var out []Template
	err := c.getJSON(ctx, "/v1/templates", &out)
	return out, err
}

// Graph fetches a snapshot of the live document.
func (c *Client) Graph(ctx context.Context) (Graph, error) {
	var out Graph
	err := c.getJSON(ctx, "/v1/graph", &out)
	return out, err
}

// State fetches the interaction state.
func (c *Client) State(ctx context.Context) (State, error) {
	var out State
	err := c.getJSON(ctx, "/v1/state", &out)
	return out, err
}

// GetEvents fetches recent journal events, oldest first.
func (c *Client) GetEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []Event
	err := c.getJSON(ctx, fmt.Sprintf("/v1/events?limit=%d", limit), &out)
	return out, err
}

// Report downloads a CSV report (events, connections or activity) for the
// live document. The editor must journal to SQLite.
func (c *Client) Report(ctx context.Context, reportType string, limit int) ([]byte, error) {
	path := "/v1/reports/" + url.PathEscape(reportType)
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var body []byte
	err := c.get(ctx, path, func(r io.Reader) error {
		var err error
		body, err = io.ReadAll(r)
		return err
	})
	return body, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.get(ctx, path, func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return nil
	})
}

// get issues a GET and hands the body to read. Network errors and 5xx
// responses are retried with backoff; other statuses fail immediately.
func (c *Client) get(ctx context.Context, path string, read func(io.Reader) error) error {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff.Next(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := c.do(ctx, path, read)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) do(ctx context.Context, path string, read func(io.Reader) error) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return true, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return false, read(resp.Body)
}
