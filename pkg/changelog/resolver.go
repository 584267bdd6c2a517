// Package changelog assembles the approximate changelog for an exact
// package version from a chain of fallback sources.
//
// Sources are tried strictly in descending order of presumed accuracy:
//
//  1. npm: a CHANGELOG.md file in the published package files
//  2. git: a CHANGELOG.md file in the package's repository
//  3. gh-releases: the GitHub releases of the package's repository
//
// The chain short-circuits on the first source that yields content. A
// source that fails or is absent is simply skipped, never an error; only
// assembling the underlying package can fail.
package changelog

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/github"
	"github.com/ghostdevv/npm-alt/pkg/integrations/unpkg"
	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
)

// Source identifies where a changelog artifact came from.
type Source string

const (
	SourceNpm        Source = "npm"
	SourceGit        Source = "git"
	SourceGhReleases Source = "gh-releases"
)

// Artifact is one normalized changelog: markdown content plus its source.
type Artifact struct {
	Source  Source `json:"source"`
	Content string `json:"content"`
}

const (
	changelogTTL    = 10 * time.Minute
	changelogSchema = 1
)

// Resolver assembles changelog artifacts. Safe for concurrent use.
type Resolver struct {
	bundle   *unpkg.Client
	releases *github.Client
	packages *npmpkg.Service
	cache    *cache.Cache
	log      *charmlog.Logger
}

// NewResolver creates a changelog resolver over the given clients.
func NewResolver(bundle *unpkg.Client, releases *github.Client, packages *npmpkg.Service, c *cache.Cache, logger *charmlog.Logger) *Resolver {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Resolver{
		bundle:   bundle,
		releases: releases,
		packages: packages,
		cache:    c,
		log:      logger,
	}
}

// Get returns the changelog artifact for an exact package version, or nil
// when no source yields content. Cached for ten minutes under
// changelog:<name>@<version>.
func (r *Resolver) Get(ctx context.Context, name, version string) (*Artifact, error) {
	return cache.Cached(ctx, r.cache, cache.Options{
		Key:    "changelog:" + name + "@" + version,
		TTL:    changelogTTL,
		Schema: changelogSchema,
	}, func(ctx context.Context) (*Artifact, error) {
		return r.resolve(ctx, name, version)
	})
}

func (r *Resolver) resolve(ctx context.Context, name, version string) (*Artifact, error) {
	// 1. CHANGELOG.md from the published file bundle.
	if content, err := r.bundle.File(ctx, name, version, "CHANGELOG.md"); err == nil && content != "" {
		return &Artifact{Source: SourceNpm, Content: content}, nil
	}

	pkg, err := r.packages.GetPackageExact(ctx, npmpkg.ResolvedVersion{Name: name, Version: version})
	if err != nil {
		return nil, err
	}

	host := ParseHost(pkg.RepoURL)
	if host == nil {
		return nil, nil
	}

	// 2. CHANGELOG.md at the repository root, honoring any declared
	// monorepo subdirectory.
	fileURL := host.RawFileURL(path.Join("/", pkg.RepoDir, "CHANGELOG.md"))
	if content, err := r.bundle.GetText(ctx, fileURL); err == nil && content != "" {
		return &Artifact{Source: SourceGit, Content: content}, nil
	}

	// 3. Hosted release notes, GitHub only.
	if host.Kind != HostGitHub {
		return nil, nil
	}
	return r.fromReleases(ctx, host), nil
}

type releaseSection struct {
	md          string
	publishedAt time.Time
}

// fromReleases concatenates the repository's published releases into one
// markdown document, newest first. Any listing failure means this source is
// absent, never an error.
func (r *Resolver) fromReleases(ctx context.Context, host *Host) *Artifact {
	var sections []releaseSection

	for page := 1; ; page++ {
		releases, err := r.releases.Releases(ctx, host.Owner, host.Project, page)
		if err != nil {
			r.log.Debug("release listing failed", "repo", host.Owner+"/"+host.Project, "err", err)
			return nil
		}

		for _, rel := range releases {
			if rel.Draft || rel.Prerelease {
				continue
			}
			sections = append(sections, releaseSection{
				md:          fmt.Sprintf("# %s\n\n%s", rel.Name, rel.Body),
				publishedAt: rel.PublishedAt,
			})
		}

		if len(releases) < github.ReleasePageSize {
			break
		}
	}

	if len(sections) == 0 {
		return nil
	}

	sort.Slice(sections, func(i, j int) bool {
		return sections[i].publishedAt.After(sections[j].publishedAt)
	})

	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.md
	}

	return &Artifact{Source: SourceGhReleases, Content: strings.Join(parts, "\n\n")}
}
