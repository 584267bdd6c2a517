package npmpkg

import (
	"context"
	"sort"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

// GetVersions returns the version listing for the specifier's package,
// cached briefly under versions:<name>.
func (s *Service) GetVersions(ctx context.Context, spec Specifier) (*PackageVersions, error) {
	r, err := s.resolve(ctx, spec)
	if err != nil {
		return nil, err
	}

	return cache.Cached(ctx, s.cache, cache.Options{
		Key:    "versions:" + r.Name,
		TTL:    versionsTTL,
		Schema: versionsSchema,
	}, func(ctx context.Context) (*PackageVersions, error) {
		doc := r.pkg
		if doc == nil {
			var err error
			doc, err = s.registry.Packument(ctx, r.Name)
			if err != nil {
				return nil, err
			}
		}
		return versionsFromPackument(doc), nil
	})
}

// storeVersions writes the version listing derived from doc into the cache.
// With force=true the entry is overwritten unconditionally; this is the
// prewarm path used by the assembler.
func (s *Service) storeVersions(ctx context.Context, doc *npm.Packument, force bool) (*PackageVersions, error) {
	return cache.Cached(ctx, s.cache, cache.Options{
		Key:    "versions:" + doc.Name,
		TTL:    versionsTTL,
		Schema: versionsSchema,
		Force:  force,
	}, func(ctx context.Context) (*PackageVersions, error) {
		return versionsFromPackument(doc), nil
	})
}

func versionsFromPackument(doc *npm.Packument) *PackageVersions {
	summaries := make([]VersionSummary, 0, len(doc.Versions))
	for raw, manifest := range doc.Versions {
		summaries = append(summaries, VersionSummary{
			Version:     raw,
			Deprecated:  manifest.DeprecatedNotice() != "",
			License:     manifest.LicenseString(),
			Size:        manifest.Dist.UnpackedSize,
			PublishedAt: doc.Time[raw],
		})
	}

	// Publish order, oldest first. The packument's map offers no order
	// of its own.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].PublishedAt.Before(summaries[j].PublishedAt)
	})

	return &PackageVersions{Name: doc.Name, Versions: summaries}
}
