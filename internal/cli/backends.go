package cli

import (
	"context"
	"fmt"

	"github.com/chemsafe/chemsafe/internal/cache"
	"github.com/chemsafe/chemsafe/internal/config"
	"github.com/chemsafe/chemsafe/internal/logging"
	"github.com/chemsafe/chemsafe/internal/scraper"
	"github.com/chemsafe/chemsafe/internal/store"
)

// openStore opens the configured SQLite database, creating the data
// directories on first use.
func (a *app) openStore() (*store.Store, error) {
	if err := a.cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	return store.Open(a.cfg.Database.Path, logging.ComponentLogger(a.logResult.Logger, "store"))
}

// newCacheStore builds the configured cache backend. The returned closer is
// a no-op for the file backend.
func (a *app) newCacheStore(ctx context.Context) (cache.Store, func(), error) {
	logger := logging.ComponentLogger(a.logResult.Logger, "cache")

	if a.cfg.Cache.Backend == config.CacheBackendRedis {
		maxAge, err := a.cfg.Cache.MaxAgeDuration()
		if err != nil {
			return nil, nil, err
		}

		rs, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     a.cfg.Cache.Redis.Addr,
			Password: a.cfg.Cache.Redis.Password,
			DB:       a.cfg.Cache.Redis.DB,
		}, maxAge, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis cache: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil
	}

	fs, err := a.newFileCache()
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}

// newFileCache builds the file cache backend regardless of the configured
// backend. The cache subcommands operate on it directly because its entries
// live on local disk.
func (a *app) newFileCache() (*cache.FileStore, error) {
	maxAge, err := a.cfg.Cache.MaxAgeDuration()
	if err != nil {
		return nil, err
	}

	return cache.NewFileStore(a.cfg.Cache.Dir, maxAge,
		logging.ComponentLogger(a.logResult.Logger, "cache"))
}

// newScraper builds the PubChem client over the given cache.
func (a *app) newScraper(cacheStore cache.Store) (*scraper.PubChem, error) {
	timeout, err := a.cfg.Scraper.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	pause, err := a.cfg.Scraper.RateLimitDuration()
	if err != nil {
		return nil, err
	}

	return scraper.NewPubChem(scraper.Options{
		BaseURL: a.cfg.Scraper.BaseURL,
		ViewURL: a.cfg.Scraper.ViewURL,
		Timeout: timeout,
		Pause:   pause,
		Cache:   cacheStore,
	}, logging.ComponentLogger(a.logResult.Logger, "scraper")), nil
}
