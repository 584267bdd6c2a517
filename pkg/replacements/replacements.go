// Package replacements surfaces suggested alternatives for packages that
// the module-replacements project lists as replaceable by native platform
// features, smaller utilities, or better-maintained libraries.
//
// The source of truth is the manifest files published inside the
// module-replacements npm package itself, fetched through the file-bundle
// endpoint and cached for a day.
package replacements

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/unpkg"
)

const (
	manifestTTL    = 24 * time.Hour
	manifestSchema = 1

	// manifestPackage publishes the curated replacement lists.
	manifestPackage = "module-replacements"
)

// manifestNames are the lists consulted, matching the upstream layout
// under manifests/.
var manifestNames = []string{"micro-utilities", "native", "preferred"}

// Type discriminates how a replacement is described.
type Type string

const (
	// TypeSimple carries a short inline suggestion.
	TypeSimple Type = "simple"

	// TypeNative points at a platform feature, with its MDN path and the
	// Node version that introduced it where applicable.
	TypeNative Type = "native"

	// TypeDocumented points at a write-up in the upstream docs.
	TypeDocumented Type = "documented"

	// typeNone marks upstream entries with no actionable suggestion;
	// they are filtered out and never surface.
	typeNone Type = "none"
)

// Replacement is one suggested alternative for a package. Which fields are
// set depends on Type.
type Replacement struct {
	Type        Type   `json:"type"`
	ModuleName  string `json:"moduleName"`
	Replacement string `json:"replacement,omitempty"`
	MDNPath     string `json:"mdnPath,omitempty"`
	NodeVersion string `json:"nodeVersion,omitempty"`
	DocPath     string `json:"docPath,omitempty"`
}

// manifest is the shape of one upstream manifest file.
type manifest struct {
	ModuleReplacements []Replacement `json:"moduleReplacements"`
}

// Service looks up replacement suggestions by package name.
type Service struct {
	bundle *unpkg.Client
	cache  *cache.Cache
	log    *charmlog.Logger
}

// NewService creates a replacements service over the given file-bundle client.
func NewService(bundle *unpkg.Client, c *cache.Cache, logger *charmlog.Logger) *Service {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Service{bundle: bundle, cache: c, log: logger}
}

// ForPackage returns the actionable replacement suggestions for a package.
// The manifest load is best-effort: when none of the lists can be fetched
// the package simply shows no suggestions, never an error.
func (s *Service) ForPackage(ctx context.Context, name string) []Replacement {
	all, err := s.load(ctx)
	if err != nil {
		s.log.Debug("replacement manifests unavailable", "err", err)
	}

	out := []Replacement{}
	for _, r := range all {
		if r.ModuleName == name && r.Type != typeNone {
			out = append(out, r)
		}
	}
	return out
}

// load fetches and concatenates every manifest list, cached for a day under
// replacements:all.
func (s *Service) load(ctx context.Context) ([]Replacement, error) {
	return cache.Cached(ctx, s.cache, cache.Options{
		Key:    "replacements:all",
		TTL:    manifestTTL,
		Schema: manifestSchema,
	}, func(ctx context.Context) ([]Replacement, error) {
		var all []Replacement
		for _, name := range manifestNames {
			raw, err := s.bundle.File(ctx, manifestPackage, "latest", "manifests/"+name+".json")
			if err != nil {
				return nil, err
			}

			var m manifest
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				return nil, fmt.Errorf("parse %s manifest: %w", name, err)
			}
			all = append(all, m.ModuleReplacements...)
		}
		return all, nil
	})
}
