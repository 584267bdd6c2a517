// Package npmpkg resolves version specifiers against the npm registry and
// assembles the normalized package representation the rest of npm-alt
// consumes.
//
// The entry point is [Service], an explicitly constructed, lifetime-scoped
// object holding the registry client, the cache, and a logger. It is safe
// for concurrent use across requests; it keeps no per-request state.
//
// The pipeline is: raw specifier string → [ParseSpecifier] → [Service.Resolve]
// (exact {name, version}) → [Service.GetPackage] (cached [InternalPackage]).
// Downstream consumers (changelog, score, dependency graph) key their own
// cached artifacts by the resolved identity.
package npmpkg

import (
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

// Cache TTLs. Specifier and version-list entries are short-lived because
// tags and ranges point at mutable targets; assembled packages are keyed by
// an exact version and can live a day.
const (
	specifierTTL = 5 * time.Minute
	versionsTTL  = 5 * time.Minute
	packageTTL   = 24 * time.Hour
)

// Cache schema versions. Bump when the stored shape changes.
const (
	specifierSchema = 1
	versionsSchema  = 1
	packageSchema   = 1
)

// Service resolves specifiers and assembles packages.
type Service struct {
	registry *npm.Client
	cache    *cache.Cache
	log      *charmlog.Logger

	// bg tracks fire-and-forget prewarm goroutines so shutdown and tests
	// can wait for them.
	bg sync.WaitGroup
}

// NewService creates a package service over the given registry client and cache.
func NewService(registry *npm.Client, c *cache.Cache, logger *charmlog.Logger) *Service {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Service{
		registry: registry,
		cache:    c,
		log:      logger,
	}
}

// Wait blocks until all background prewarm tasks have finished.
func (s *Service) Wait() {
	s.bg.Wait()
}
