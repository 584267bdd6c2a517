// Package unpkg implements the client for the package file-bundle endpoint,
// which serves raw published files (README.md, CHANGELOG.md) and, with the
// ?meta flag, a listing of every file in a published version.
package unpkg

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ghostdevv/npm-alt/pkg/integrations"
)

// DefaultBaseURL is the public unpkg CDN.
const DefaultBaseURL = "https://unpkg.com"

// Client fetches published files from the package file bundle.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a file-bundle client. Pass an empty baseURL for unpkg.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// File fetches the raw contents of one published file, e.g. "CHANGELOG.md".
// Absence (404) surfaces as [integrations.ErrNotFound]; callers treating the
// file as optional fold that into a nil result.
func (c *Client) File(ctx context.Context, name, version, path string) (string, error) {
	return c.GetText(ctx, c.fileURL(name, version, path))
}

// ProbeFile reports whether a published file exists. A clean negative
// response yields (false, nil); only a failed probe returns an error.
func (c *Client) ProbeFile(ctx context.Context, name, version, path string) (bool, error) {
	return c.Probe(ctx, c.fileURL(name, version, path))
}

// MetaResponse is the file listing returned by the ?meta flag.
type MetaResponse struct {
	Package string     `json:"package"`
	Version string     `json:"version"`
	Prefix  string     `json:"prefix"`
	Files   []MetaFile `json:"files"`
}

// MetaFile describes one published file.
type MetaFile struct {
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	Type      string `json:"type"` // MIME type
	Integrity string `json:"integrity"`
}

// Meta fetches the file listing for a published version.
func (c *Client) Meta(ctx context.Context, name, version string) (*MetaResponse, error) {
	var resp MetaResponse
	u := fmt.Sprintf("%s/%s@%s/?meta", c.baseURL, name, url.PathEscape(version))
	if err := c.Get(ctx, u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) fileURL(name, version, path string) string {
	return fmt.Sprintf("%s/%s@%s/%s", c.baseURL, name, url.PathEscape(version), strings.TrimPrefix(path, "/"))
}
