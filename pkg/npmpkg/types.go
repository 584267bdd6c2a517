package npmpkg

import "time"

// SpecifierType discriminates how a specifier's FetchSpec is interpreted.
type SpecifierType string

const (
	// SpecifierTag names a dist-tag (e.g. "latest", "next").
	SpecifierTag SpecifierType = "tag"

	// SpecifierRange is a semver range (e.g. "^1.0.0", "*").
	SpecifierRange SpecifierType = "range"

	// SpecifierVersion is an exact version, trusted verbatim.
	SpecifierVersion SpecifierType = "version"
)

// Specifier is raw user input parsed into a discriminated form.
// Immutable once parsed; Name is always a syntactically valid package name.
type Specifier struct {
	Type      SpecifierType `json:"type"`
	Name      string        `json:"name"`
	FetchSpec string        `json:"fetchSpec"`
}

// String reassembles the specifier in name@spec form, used in cache keys.
func (s Specifier) String() string {
	return s.Name + "@" + s.FetchSpec
}

// ResolvedVersion is an exact, unambiguous coordinate into the registry.
// For tag and range specifiers it reflects a point-in-time read of upstream
// state and is not stable across time.
type ResolvedVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ID returns the name@version identity used for cache suffixes and graph nodes.
func (r ResolvedVersion) ID() string {
	return r.Name + "@" + r.Version
}

// DependencyType classifies a dependency edge.
type DependencyType string

const (
	DependencyProd DependencyType = "prod"
	DependencyDev  DependencyType = "dev"
	DependencyPeer DependencyType = "peer"
)

// Dependency is one normalized dependency entry. Version is the declared
// range spec string, not a resolved version. Registry reports whether that
// string is syntactically resolvable as a registry specifier, as opposed to
// a URL, git, or local reference; this is a best-effort syntactic signal,
// not an existence check.
type Dependency struct {
	Type     DependencyType `json:"type"`
	Name     string         `json:"name"`
	Version  string         `json:"version"`
	Optional bool           `json:"optional"`
	Registry bool           `json:"registry"`
}

// FundingType is a recognized funding platform.
type FundingType string

const (
	FundingPatreon    FundingType = "patreon"
	FundingIndividual FundingType = "individual"
)

// Funding is one normalized funding entry. Unknown upstream types are
// dropped while the URL is kept.
type Funding struct {
	Type FundingType `json:"type,omitempty"`
	URL  string      `json:"url"`
}

// InternalPackage is the normalized, storage-minimized projection of an
// upstream manifest. It never holds the full raw manifest: the shape is kept
// deliberately small to bound cache-entry size. Immutable after assembly.
type InternalPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	packageCore
}

// packageCore is the cached portion of an InternalPackage. Name and version
// are the cache-key suffix, so storing them again would be redundant bytes
// in every entry.
type packageCore struct {
	RepoURL       string       `json:"repoURL,omitempty"`
	RepoDir       string       `json:"repoDir,omitempty"`
	Homepage      string       `json:"homepage,omitempty"`
	Deprecated    string       `json:"deprecated,omitempty"`
	License       string       `json:"license,omitempty"`
	Size          int64        `json:"size,omitempty"`
	Dependencies  []Dependency `json:"dependencies"`
	Funding       []Funding    `json:"funding"`
	TypesIncluded bool         `json:"typesIncluded"`
	PublishedAt   time.Time    `json:"publishedAt"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// VersionSummary is one entry in a package's version listing.
type VersionSummary struct {
	Version     string    `json:"version"`
	Deprecated  bool      `json:"deprecated"`
	License     string    `json:"license,omitempty"`
	Size        int64     `json:"size,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// PackageVersions is the version listing for a package.
type PackageVersions struct {
	Name     string           `json:"name"`
	Versions []VersionSummary `json:"versions"`
}

// TypeStatusKind describes where type definitions for a package come from.
type TypeStatusKind string

const (
	// TypesBuiltIn means type definitions ship with the package itself.
	TypesBuiltIn TypeStatusKind = "built-in"

	// TypesDefinitelyTyped means types exist only via a @types/ package.
	TypesDefinitelyTyped TypeStatusKind = "definitely-typed"

	// TypesNone means no type definitions were found.
	TypesNone TypeStatusKind = "none"
)

// TypeStatus is the type-availability report for a package. Package names
// the @types/ package when Status is definitely-typed.
type TypeStatus struct {
	Status  TypeStatusKind `json:"status"`
	Package string         `json:"pkg,omitempty"`
}
