// ABOUTME: HTTP client collaborator for the fetch resolver with size and time limits
// ABOUTME: Returns the raw body untransformed so feed bytes reach the parser verbatim

package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxResponseSize caps feed downloads at 10MB.
const MaxResponseSize = 10 * 1024 * 1024

// Client is the single-operation HTTP collaborator: a GET with custom
// headers returning the undecoded body text and status code. Errors are
// transport-level only; non-200 statuses are the caller's concern.
type Client interface {
	Request(ctx context.Context, url string, headers map[string]string) (string, int, error)
}

// HTTPClient is the default Client backed by net/http.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a client with the given timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Request performs a GET with the given headers.
func (c *HTTPClient) Request(ctx context.Context, url string, headers map[string]string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return "", resp.StatusCode, fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}

	return string(body), resp.StatusCode, nil
}
