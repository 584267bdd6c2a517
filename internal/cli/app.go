package cli

import (
	"context"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/changelog"
	"github.com/ghostdevv/npm-alt/pkg/config"
	"github.com/ghostdevv/npm-alt/pkg/depgraph"
	"github.com/ghostdevv/npm-alt/pkg/filetree"
	"github.com/ghostdevv/npm-alt/pkg/integrations/github"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
	"github.com/ghostdevv/npm-alt/pkg/integrations/unpkg"
	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
	"github.com/ghostdevv/npm-alt/pkg/replacements"
	"github.com/ghostdevv/npm-alt/pkg/score"
	"github.com/ghostdevv/npm-alt/pkg/search"
)

// app holds the fully wired service graph shared by all commands.
type app struct {
	cfg *config.Config
	log *charmlog.Logger

	cache        *cache.Cache
	packages     *npmpkg.Service
	changelogs   *changelog.Resolver
	scores       *score.Engine
	graphs       *depgraph.Builder
	files        *filetree.Service
	searches     *search.Service
	replacements *replacements.Service
}

// newApp loads configuration and wires the services. When Redis is
// configured but unreachable the app runs with an in-memory cache instead
// of failing startup.
func newApp(ctx context.Context, configPath string, logger *charmlog.Logger) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var store cache.Store = cache.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		redis, err := cache.NewRedisStore(ctx, cfg.Redis.Addr)
		if err != nil {
			logger.Warn("redis unreachable, falling back to in-memory cache", "addr", cfg.Redis.Addr, "err", err)
		} else {
			store = redis
		}
	}
	c := cache.New(store, logger)

	registry := npm.NewClient(cfg.Registry.BaseURL)
	bundle := unpkg.NewClient(cfg.Unpkg.BaseURL)
	releases := github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token)

	packages := npmpkg.NewService(registry, c, logger)
	changelogs := changelog.NewResolver(bundle, releases, packages, c, logger)

	return &app{
		cfg:          cfg,
		log:          logger,
		cache:        c,
		packages:     packages,
		changelogs:   changelogs,
		scores:       score.NewEngine(bundle, changelogs, packages, c, logger),
		graphs:       depgraph.NewBuilder(packages, logger),
		files:        filetree.NewService(bundle, c, logger),
		searches:     search.NewService(registry, logger),
		replacements: replacements.NewService(bundle, c, logger),
	}, nil
}

// Close waits for background work and releases the cache store.
func (a *app) Close() error {
	a.packages.Wait()
	return a.cache.Close()
}
