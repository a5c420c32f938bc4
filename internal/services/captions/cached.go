package captions

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/internal/services/cache"
)

const cacheName = "captions"

// Fetcher resolves a post URL to caption text and media URLs
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Caption, error)
}

// CachedFetcher remembers successful lookups so a retry or a prefetched
// share does not start another scraper run. Errors are never cached.
type CachedFetcher struct {
	next    Fetcher
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewCachedFetcher wraps next with a cache keyed by post URL
func NewCachedFetcher(next Fetcher, c cache.Cache, ttl time.Duration, logger *zap.Logger, m *metrics.Collector) *CachedFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{
		next:    next,
		cache:   c,
		ttl:     ttl,
		logger:  logger.Named("captions.cache"),
		metrics: m,
	}
}

func (f *CachedFetcher) Fetch(ctx context.Context, rawURL string) (*Caption, error) {
	key := cacheKey(rawURL)

	if data, ok := f.cache.Get(ctx, key); ok {
		var caption Caption
		if err := json.Unmarshal(data, &caption); err == nil {
			f.metrics.CacheLookup(cacheName, true)
			return &caption, nil
		}
		_ = f.cache.Delete(ctx, key)
	}
	f.metrics.CacheLookup(cacheName, false)

	caption, err := f.next.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(caption); err == nil {
		if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
			f.logger.Warn("failed to cache caption", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return caption, nil
}

func cacheKey(rawURL string) string {
	return "caption:" + rawURL
}
