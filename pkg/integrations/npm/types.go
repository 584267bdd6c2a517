package npm

import (
	"encoding/json"
	"time"
)

// Packument is the full per-package metadata document served by the registry
// at GET /{name}. Versions map exact version strings to their manifests, and
// Time maps versions (plus the "created" and "modified" pseudo-keys) to
// publish timestamps.
type Packument struct {
	Name     string               `json:"name"`
	DistTags map[string]string    `json:"dist-tags"`
	Versions map[string]Manifest  `json:"versions"`
	Time     map[string]time.Time `json:"time"`
}

// Manifest is the per-version manifest (essentially a published package.json
// plus registry additions like dist). Upstream fields with polymorphic shapes
// (license, author, repository, deprecated, funding, exports) are held raw or
// as any and normalized by exactly one accessor each.
type Manifest struct {
	Name                 string                    `json:"name"`
	Version              string                    `json:"version"`
	Description          string                    `json:"description"`
	Homepage             string                    `json:"homepage"`
	License              any                       `json:"license"`
	Author               any                       `json:"author"`
	Repository           any                       `json:"repository"`
	Deprecated           any                       `json:"deprecated"`
	Types                string                    `json:"types"`
	Typings              string                    `json:"typings"`
	Exports              json.RawMessage           `json:"exports"`
	Funding              json.RawMessage           `json:"funding"`
	Dependencies         map[string]string         `json:"dependencies"`
	DevDependencies      map[string]string         `json:"devDependencies"`
	OptionalDependencies map[string]string         `json:"optionalDependencies"`
	PeerDependencies     map[string]string         `json:"peerDependencies"`
	PeerDependenciesMeta map[string]PeerDependency `json:"peerDependenciesMeta"`
	Dist                 Dist                      `json:"dist"`
}

// PeerDependency is the per-name companion entry in peerDependenciesMeta.
type PeerDependency struct {
	Optional bool `json:"optional"`
}

// Dist holds registry distribution metadata for a published version.
type Dist struct {
	Tarball      string `json:"tarball"`
	UnpackedSize int64  `json:"unpackedSize"`
	FileCount    int    `json:"fileCount"`
}

// LicenseString normalizes the polymorphic license field
// (string | {type, url}) to its SPDX-ish string form.
func (m *Manifest) LicenseString() string {
	return stringField(m.License, "type")
}

// AuthorString normalizes the polymorphic author field
// (string | {name, email, url}) to the author name.
func (m *Manifest) AuthorString() string {
	return stringField(m.Author, "name")
}

// RepositoryURL normalizes the polymorphic repository field
// (string | {type, url, directory}) to the repository URL.
func (m *Manifest) RepositoryURL() string {
	return stringField(m.Repository, "url")
}

// RepositoryDirectory returns the declared monorepo subdirectory, if any.
func (m *Manifest) RepositoryDirectory() string {
	if obj, ok := m.Repository.(map[string]any); ok {
		if s, ok := obj["directory"].(string); ok {
			return s
		}
	}
	return ""
}

// DeprecatedNotice normalizes the deprecated field (string | bool) to the
// deprecation message. A bare `true` yields a generic notice; anything else
// yields the empty string.
func (m *Manifest) DeprecatedNotice() string {
	switch v := m.Deprecated.(type) {
	case string:
		return v
	case bool:
		if v {
			return "This package has been deprecated"
		}
	}
	return ""
}

func stringField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

// SearchResponse is the registry's paginated search result document from
// GET /-/v1/search.
type SearchResponse struct {
	Objects []SearchObject `json:"objects"`
	Total   int            `json:"total"`
	Time    string         `json:"time"`
}

// SearchObject is one search result with its ranking metadata.
type SearchObject struct {
	Package     SearchPackage `json:"package"`
	Downloads   Downloads     `json:"downloads"`
	Updated     string        `json:"updated"`
	SearchScore float64       `json:"searchScore"`
}

// SearchPackage is the package summary embedded in a search result.
type SearchPackage struct {
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Description string       `json:"description,omitempty"`
	Keywords    []string     `json:"keywords"`
	License     string       `json:"license,omitempty"`
	Date        string       `json:"date"`
	Links       PackageLinks `json:"links"`
}

// Downloads holds recent download counts for a search result.
type Downloads struct {
	Monthly int64 `json:"monthly"`
	Weekly  int64 `json:"weekly"`
}

// PackageLinks holds the URLs attached to a search result.
type PackageLinks struct {
	NPM        string `json:"npm"`
	Homepage   string `json:"homepage,omitempty"`
	Repository string `json:"repository,omitempty"`
}
