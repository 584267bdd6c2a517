package changelog

import (
	"fmt"
	"net/url"
	"strings"
)

// HostKind identifies a recognized source-hosting provider.
type HostKind string

const (
	HostGitHub    HostKind = "github"
	HostGitLab    HostKind = "gitlab"
	HostBitbucket HostKind = "bitbucket"
)

// Host is a repository coordinate on a recognized hosting provider.
type Host struct {
	Kind    HostKind
	Owner   string
	Project string
}

var hostKinds = map[string]HostKind{
	"github.com":    HostGitHub,
	"gitlab.com":    HostGitLab,
	"bitbucket.org": HostBitbucket,
}

// ParseHost extracts the hosting provider and owner/project from a
// normalized repository URL. Returns nil for empty URLs, unrecognized
// hosts, or URLs without an owner/project path.
func ParseHost(repoURL string) *Host {
	if repoURL == "" {
		return nil
	}

	u, err := url.Parse(repoURL)
	if err != nil {
		return nil
	}

	kind, ok := hostKinds[strings.ToLower(u.Host)]
	if !ok {
		return nil
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}

	return &Host{
		Kind:    kind,
		Owner:   parts[0],
		Project: strings.TrimSuffix(parts[1], ".git"),
	}
}

// RawFileURL returns the URL serving the raw contents of path at the
// repository's default branch.
func (h *Host) RawFileURL(path string) string {
	path = strings.TrimPrefix(path, "/")
	switch h.Kind {
	case HostGitLab:
		return fmt.Sprintf("https://gitlab.com/%s/%s/-/raw/HEAD/%s", h.Owner, h.Project, path)
	case HostBitbucket:
		return fmt.Sprintf("https://bitbucket.org/%s/%s/raw/HEAD/%s", h.Owner, h.Project, path)
	default:
		return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/HEAD/%s", h.Owner, h.Project, path)
	}
}
