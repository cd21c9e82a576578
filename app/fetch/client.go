package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes limits response bodies so a misbehaving source cannot
// exhaust memory.
const maxBodyBytes = 2 << 20 // 2 MiB

const requestTimeout = 30 * time.Second

// Client performs rate-limited HTTP retrieval with an identifying
// user-agent. It never retries; retry policy belongs to callers.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

func NewClient(userAgent string, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		userAgent:  userAgent,
	}
}

// Fetch retrieves a URL with a GET request. The accept header hints the
// expected payload type ("" sends a generic one). Returns the payload and
// the response content type, or a *FetchError.
func (c *Client) Fetch(ctx context.Context, url, accept string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", &FetchError{URL: url, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &FetchError{URL: url, Cause: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	if accept == "" {
		accept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{URL: url, Cause: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", &FetchError{URL: url, Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// Accessible probes a URL with a HEAD request. A 2xx or 3xx status means
// the URL is worth a full GET.
func (c *Client) Accessible(ctx context.Context, url string) bool {
	if err := c.limiter.Wait(ctx); err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// HTTPClient exposes the underlying http.Client for collaborators that
// build their own requests (the robots guard, content enrichment).
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// UserAgent returns the identifying agent string this client sends.
func (c *Client) UserAgent() string {
	return c.userAgent
}
