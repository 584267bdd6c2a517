package npmpkg

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/errors"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

// resolved carries the resolution result plus the packument when it was
// fetched during this call. Holding it here lets the assembler skip a
// second registry round trip without ever caching the full document.
type resolved struct {
	ResolvedVersion
	pkg *npm.Packument
}

// Resolve turns a specifier into an exact {name, version} coordinate.
//
// Exact versions are trusted verbatim with zero network access; tags and
// ranges consult the packument and are cached for a few minutes, keyed by
// the specifier string.
func (s *Service) Resolve(ctx context.Context, spec Specifier) (ResolvedVersion, error) {
	r, err := s.resolve(ctx, spec)
	return r.ResolvedVersion, err
}

func (s *Service) resolve(ctx context.Context, spec Specifier) (resolved, error) {
	if spec.Type == SpecifierVersion {
		return resolved{ResolvedVersion: ResolvedVersion{Name: spec.Name, Version: spec.FetchSpec}}, nil
	}

	var pkg *npm.Packument

	rv, err := cache.Cached(ctx, s.cache, cache.Options{
		Key:    "specifier:" + spec.String(),
		TTL:    specifierTTL,
		Schema: specifierSchema,
	}, func(ctx context.Context) (ResolvedVersion, error) {
		doc, err := s.registry.Packument(ctx, spec.Name)
		if err != nil {
			return ResolvedVersion{}, err
		}
		pkg = doc

		version, err := pickVersion(spec, doc)
		if err != nil {
			return ResolvedVersion{}, err
		}
		return ResolvedVersion{Name: spec.Name, Version: version}, nil
	})
	if err != nil {
		return resolved{}, err
	}

	return resolved{ResolvedVersion: rv, pkg: pkg}, nil
}

// pickVersion selects the exact version a tag or range specifier points at.
//
// Tags are a dist-tags lookup. Ranges of "*" or "latest" take the latest
// dist-tag verbatim. Any other range considers the latest dist-tag a ceiling
// only when it itself satisfies the range, then picks the highest satisfying
// version not exceeding that ceiling; with no ceiling the scan is
// unconstrained. Ties break by semver comparison, deterministically.
func pickVersion(spec Specifier, doc *npm.Packument) (string, error) {
	switch spec.Type {
	case SpecifierTag:
		if v, ok := doc.DistTags[spec.FetchSpec]; ok && v != "" {
			return v, nil
		}
		return "", errors.New(errors.ErrCodeVersionNotFound,
			"tag %q not found for package %s", spec.FetchSpec, spec.Name)

	case SpecifierRange:
		if spec.FetchSpec == "*" || spec.FetchSpec == "latest" {
			if v := doc.DistTags["latest"]; v != "" {
				return v, nil
			}
			return "", errors.New(errors.ErrCodeVersionNotFound,
				"package %s has no latest tag", spec.Name)
		}

		rng, err := semver.NewConstraint(spec.FetchSpec)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidSpecifier, err,
				"invalid range %q", spec.FetchSpec)
		}

		var ceiling *semver.Version
		if latest := doc.DistTags["latest"]; latest != "" {
			if lv, err := semver.NewVersion(latest); err == nil && rng.Check(lv) {
				ceiling = lv
			}
		}

		var best *semver.Version
		bestRaw := ""
		for raw := range doc.Versions {
			v, err := semver.NewVersion(raw)
			if err != nil || !rng.Check(v) {
				continue
			}
			if ceiling != nil && v.GreaterThan(ceiling) {
				continue
			}
			if best == nil || v.GreaterThan(best) {
				best, bestRaw = v, raw
			}
		}
		if best == nil {
			return "", errors.New(errors.ErrCodeVersionNotFound,
				"no version of %s satisfies %q", spec.Name, spec.FetchSpec)
		}
		return bestRaw, nil
	}

	return "", errors.New(errors.ErrCodeInvalidSpecifier,
		"unresolvable specifier type %q", spec.Type)
}
