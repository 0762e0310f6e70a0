package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/mnr-feed/rterr"
)

// Client is a simple HTTP client for fetching real-time feed data.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client with the given per-request timeout
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Get fetches url and returns the full response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, url, "")
}

// GetWithKey fetches url with an x-api-key header, for the binary
// protobuf feed.
func (c *Client) GetWithKey(ctx context.Context, url, apiKey string) ([]byte, error) {
	return c.do(ctx, url, apiKey)
}

// do issues the request under a deadline. Cancelling the context aborts the
// in-flight connection, so a timed-out request does not leak.
func (c *Client) do(ctx context.Context, url, apiKey string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, rterr.Network(fmt.Sprintf("invalid feed URL %s", url), err)
	}
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, rterr.Timeout(fmt.Sprintf("request to %s timed out", url), err)
		}
		return nil, rterr.Network(fmt.Sprintf("could not download %s", url), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, rterr.Network(fmt.Sprintf("HTTP %d from %s", resp.StatusCode, url), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, rterr.Timeout(fmt.Sprintf("request to %s timed out", url), err)
		}
		return nil, rterr.Network(fmt.Sprintf("could not read response from %s", url), err)
	}
	return body, nil
}
