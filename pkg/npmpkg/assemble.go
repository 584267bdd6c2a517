package npmpkg

import (
	"context"
	"sort"
	"time"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/errors"
	"github.com/ghostdevv/npm-alt/pkg/integrations"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

// GetPackage resolves the specifier and assembles the normalized
// [InternalPackage] for the exact version, cache-wrapped for a day under
// pkg:<name>@<version>.
//
// As a side effect, a successful assembly schedules a background refresh of
// the package's version listing using the packument already in hand, to save
// a future round trip. That task is fire-and-forget: its failure never
// affects the returned package.
func (s *Service) GetPackage(ctx context.Context, spec Specifier) (*InternalPackage, error) {
	r, err := s.resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, r)
}

// GetPackageExact assembles the package for an already-resolved coordinate.
func (s *Service) GetPackageExact(ctx context.Context, rv ResolvedVersion) (*InternalPackage, error) {
	return s.assemble(ctx, resolved{ResolvedVersion: rv})
}

func (s *Service) assemble(ctx context.Context, r resolved) (*InternalPackage, error) {
	core, err := cache.Cached(ctx, s.cache, cache.Options{
		Key:    "pkg:" + r.ID(),
		TTL:    packageTTL,
		Schema: packageSchema,
	}, func(ctx context.Context) (packageCore, error) {
		doc := r.pkg
		if doc == nil {
			var err error
			doc, err = s.registry.Packument(ctx, r.Name)
			if err != nil {
				return packageCore{}, err
			}
		}

		manifest, ok := doc.Versions[r.Version]
		if !ok {
			return packageCore{}, errors.New(errors.ErrCodeVersionNotFound,
				"version %s not found for package %s", r.Version, r.Name)
		}

		// We already hold the packument, so prewarm the versions cache
		// with force=true rather than storing the version list on the
		// package itself.
		s.prewarmVersions(doc)

		return packageCore{
			RepoURL:       integrations.NormalizeRepoURL(manifest.RepositoryURL()),
			RepoDir:       manifest.RepositoryDirectory(),
			Homepage:      manifest.Homepage,
			Deprecated:    manifest.DeprecatedNotice(),
			License:       manifest.LicenseString(),
			Size:          manifest.Dist.UnpackedSize,
			Dependencies:  collectDependencies(&manifest),
			Funding:       ParseFunding(manifest.Funding),
			TypesIncluded: TypesIncluded(&manifest),
			PublishedAt:   doc.Time[r.Version],
			CreatedAt:     doc.Time["created"],
			UpdatedAt:     doc.Time["modified"],
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &InternalPackage{
		Name:        r.Name,
		Version:     r.Version,
		packageCore: core,
	}, nil
}

// collectDependencies normalizes the manifest's four dependency maps into a
// single flat list:
//
//   - prod dependencies, excluding names also declared optional (those fold
//     into the optional entries to avoid duplication)
//   - dev dependencies
//   - optional dependencies, typed prod with optional=true
//   - peer dependencies, optionality from peerDependenciesMeta
//
// Each entry carries the best-effort syntactic registry-reference flag; a
// name or version that fails to parse marks the entry registry=false without
// aborting assembly.
func collectDependencies(m *npm.Manifest) []Dependency {
	collect := func(deps map[string]string, typ DependencyType, optional func(name string) bool, skip func(name string) bool) []Dependency {
		if len(deps) == 0 {
			return nil
		}

		names := make([]string, 0, len(deps))
		for name := range deps {
			if skip != nil && skip(name) {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]Dependency, 0, len(names))
		for _, name := range names {
			version := deps[name]
			out = append(out, Dependency{
				Type:     typ,
				Name:     name,
				Version:  version,
				Optional: optional(name),
				Registry: IsRegistryRef(name, version),
			})
		}
		return out
	}

	always := func(v bool) func(string) bool {
		return func(string) bool { return v }
	}

	var deps []Dependency

	deps = append(deps, collect(m.Dependencies, DependencyProd, always(false), func(name string) bool {
		_, alsoOptional := m.OptionalDependencies[name]
		return alsoOptional
	})...)
	deps = append(deps, collect(m.DevDependencies, DependencyDev, always(false), nil)...)
	deps = append(deps, collect(m.OptionalDependencies, DependencyProd, always(true), nil)...)
	deps = append(deps, collect(m.PeerDependencies, DependencyPeer, func(name string) bool {
		return m.PeerDependenciesMeta[name].Optional
	}, nil)...)

	return deps
}

// prewarmVersions refreshes the versions:<name> cache entry in the
// background from an already-fetched packument. The caller never waits on
// it and never sees its errors.
func (s *Service) prewarmVersions(doc *npm.Packument) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if _, err := s.storeVersions(ctx, doc, true); err != nil {
			s.log.Debug("versions prewarm failed", "package", doc.Name, "err", err)
		}
	}()
}
