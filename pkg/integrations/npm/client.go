package npm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ghostdevv/npm-alt/pkg/httputil"
	"github.com/ghostdevv/npm-alt/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// Client fetches package metadata from the npm registry. It is the single
// source of truth for the rest of the system; every request carries the
// fixed identifying User-Agent and is retried 3 times with a fixed delay
// on transient failure.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client. Pass an empty baseURL for the public
// registry.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Packument fetches the full metadata document for a package.
// A registry 404 surfaces as [integrations.ErrNotFound].
func (c *Client) Packument(ctx context.Context, name string) (*Packument, error) {
	var doc Packument
	err := httputil.RetryRegistry(ctx, func() error {
		return c.Get(ctx, c.baseURL+"/"+escapeName(name), &doc)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: npm package %s", err, name)
		}
		return nil, err
	}
	return &doc, nil
}

// Manifest fetches the manifest for one exact version.
func (c *Client) Manifest(ctx context.Context, name, version string) (*Manifest, error) {
	var m Manifest
	err := httputil.RetryRegistry(ctx, func() error {
		return c.Get(ctx, c.baseURL+"/"+escapeName(name)+"/"+url.PathEscape(version), &m)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: npm package %s@%s", err, name, version)
		}
		return nil, err
	}
	return &m, nil
}

// Search queries the registry's paginated search endpoint.
func (c *Client) Search(ctx context.Context, text string, from, size int) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("size", strconv.Itoa(size))
	q.Set("from", strconv.Itoa(from))

	var resp SearchResponse
	err := httputil.RetryRegistry(ctx, func() error {
		return c.Get(ctx, c.baseURL+"/-/v1/search?"+q.Encode(), &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// escapeName encodes a package name for use in a registry path. Scoped names
// keep their @scope/ slash encoded the way the registry expects.
func escapeName(name string) string {
	if strings.HasPrefix(name, "@") {
		if scope, rest, ok := strings.Cut(name, "/"); ok {
			return url.PathEscape(scope) + "%2F" + url.PathEscape(rest)
		}
	}
	return url.PathEscape(name)
}
