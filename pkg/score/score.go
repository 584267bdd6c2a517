// Package score aggregates quality signals for an exact package version
// into a fixed-criteria report.
//
// Each criterion is evaluated independently: a failed README probe or a
// missing changelog never blocks the others, it just scores its own
// criterion as zero (or null for a probe that could not be made at all).
package score

import (
	"context"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/changelog"
	"github.com/ghostdevv/npm-alt/pkg/integrations/unpkg"
	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
)

// Report holds the per-criterion results. Readme is nil when the README
// probe itself could not be made (as opposed to a clean "not present").
type Report struct {
	Readme    *int `json:"readme"`
	Changelog int  `json:"changelog"`
	Types     int  `json:"types"`
	License   int  `json:"license"`
}

// Criterion describes one scoring criterion for display.
type Criterion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Max         int    `json:"max"`
}

// Criteria is the fixed list of scoring criteria, in display order.
var Criteria = []Criterion{
	{
		ID:          "readme",
		Name:        "Has a readme",
		Description: "A README.md file is present in the root of the package.",
		Max:         1,
	},
	{
		ID:          "changelog",
		Name:        "Has a changelog",
		Description: "A changelog was found in the package. If the changelog was uploaded to npm, then an additional point is awarded.",
		Max:         2,
	},
	{
		ID:          "types",
		Name:        "Has type definitions",
		Description: "Type definitions were found natively in the package, definitely typed doesn't count.",
		Max:         1,
	},
	{
		ID:          "license",
		Name:        "Has a license",
		Description: "The package provides a license",
		Max:         1,
	},
}

const (
	scoreTTL    = 10 * time.Minute
	scoreSchema = 1
)

// Engine computes score reports. Safe for concurrent use.
type Engine struct {
	bundle     *unpkg.Client
	changelogs *changelog.Resolver
	packages   *npmpkg.Service
	cache      *cache.Cache
	log        *charmlog.Logger
}

// NewEngine creates a score engine over the given collaborators.
func NewEngine(bundle *unpkg.Client, changelogs *changelog.Resolver, packages *npmpkg.Service, c *cache.Cache, logger *charmlog.Logger) *Engine {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Engine{
		bundle:     bundle,
		changelogs: changelogs,
		packages:   packages,
		cache:      c,
		log:        logger,
	}
}

// Get computes the score report for an exact package version, cached for
// ten minutes under score:<name>@<version>.
func (e *Engine) Get(ctx context.Context, name, version string) (*Report, error) {
	return cache.Cached(ctx, e.cache, cache.Options{
		Key:    "score:" + name + "@" + version,
		TTL:    scoreTTL,
		Schema: scoreSchema,
	}, func(ctx context.Context) (*Report, error) {
		return e.compute(ctx, name, version)
	})
}

func (e *Engine) compute(ctx context.Context, name, version string) (*Report, error) {
	pkg, err := e.packages.GetPackageExact(ctx, npmpkg.ResolvedVersion{Name: name, Version: version})
	if err != nil {
		return nil, err
	}

	// The README probe and the changelog resolution are independent; run
	// them concurrently.
	var (
		wg       sync.WaitGroup
		readme   *int
		artifact *changelog.Artifact
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		readme = e.probeReadme(ctx, pkg)
	}()
	go func() {
		defer wg.Done()
		art, err := e.changelogs.Get(ctx, name, version)
		if err != nil {
			e.log.Debug("changelog lookup failed during scoring", "package", pkg.Name, "err", err)
			return
		}
		artifact = art
	}()
	wg.Wait()

	report := &Report{Readme: readme}

	switch {
	case artifact == nil:
		report.Changelog = 0
	case artifact.Source == changelog.SourceNpm:
		report.Changelog = 2
	default:
		report.Changelog = 1
	}

	if pkg.TypesIncluded {
		report.Types = 1
	}
	if pkg.License != "" {
		report.License = 1
	}

	return report, nil
}

// probeReadme checks for a README.md in the published files. Returns 1 when
// present, 0 on a clean negative response, and nil when the probe itself
// could not be made.
func (e *Engine) probeReadme(ctx context.Context, pkg *npmpkg.InternalPackage) *int {
	ok, err := e.bundle.ProbeFile(ctx, pkg.Name, pkg.Version, "README.md")
	if err != nil {
		return nil
	}
	result := 0
	if ok {
		result = 1
	}
	return &result
}
