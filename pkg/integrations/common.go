package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ghostdevv/npm-alt/pkg/errors"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist upstream.
	// It is surfaced distinctly so callers can map it to a user-facing 404
	// rather than a generic failure.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// non-2xx responses other than 404).
	ErrNetwork = errors.New(errors.ErrCodeNetwork, "network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for upstream requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// CheckURL reports the canonical https form of raw, or empty string when raw
// is not an absolute http(s) URL. Used to filter polymorphic upstream URL
// fields (funding entries and similar).
func CheckURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Scheme = "https"
	if u.Path == "" {
		// WHATWG URL serialization always carries a path.
		u.Path = "/"
	}
	return u.String()
}

// URLEncode percent-encodes a string for use in URL query components.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
