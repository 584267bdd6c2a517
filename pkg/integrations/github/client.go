// Package github implements the client for the GitHub release API, used as
// the last fallback source for package changelogs.
package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ghostdevv/npm-alt/pkg/httputil"
	"github.com/ghostdevv/npm-alt/pkg/integrations"
)

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// ReleasePageSize is the fixed page size for release listings. Pagination
// stops when a page returns fewer entries than this.
const ReleasePageSize = 100

// retryDelay is the fixed delay between release-listing attempts.
const retryDelay = 300 * time.Millisecond

// Client lists repository releases from a GitHub-compatible API.
// Requests are bearer-token authenticated when a token is configured and
// carry the versioned API header.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a release API client. Pass an empty baseURL for the
// public GitHub API and an empty token for unauthenticated requests
// (lower rate limits).
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Release is one repository release.
type Release struct {
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Releases fetches one page of releases for owner/project, 1-indexed.
// Each call retries up to 3 times with a fixed delay, matching the
// registry client's policy.
func (c *Client) Releases(ctx context.Context, owner, project string, page int) ([]Release, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d",
		c.baseURL, owner, project, ReleasePageSize, page)

	var releases []Release
	err := httputil.Retry(ctx, 3, retryDelay, func() error {
		releases = releases[:0]
		return c.Get(ctx, u, &releases)
	})
	if err != nil {
		return nil, err
	}
	return releases, nil
}
