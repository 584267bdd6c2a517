package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ghostdevv/npm-alt/pkg/buildinfo"
	"github.com/ghostdevv/npm-alt/pkg/httputil"
	"github.com/ghostdevv/npm-alt/pkg/observability"
)

// Client provides shared HTTP functionality for all upstream API clients.
// It handles the identifying User-Agent, default headers, and status mapping;
// retry policy is applied by callers via [httputil.Retry] so each endpoint
// can carry its own delay.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the given default headers. The fixed
// User-Agent identifying this application is always set; pass nil for
// headers if no others are needed.
func NewClient(headers map[string]string) *Client {
	merged := map[string]string{"User-Agent": buildinfo.UserAgent()}
	for k, v := range headers {
		merged[k] = v
	}
	return &Client{
		http:    NewHTTPClient(),
		headers: merged,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Used by tests to point
// the client at an httptest server.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a string.
// Useful for raw file endpoints (README.md, CHANGELOG.md).
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

// Probe performs an HTTP GET and reports whether the resource exists.
// A clean non-2xx response yields (false, nil); only transport failures
// return an error. Used for optional-resource checks where absence is data,
// not a failure.
func (c *Client) Probe(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
