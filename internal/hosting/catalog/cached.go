package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"confgate/internal/hosting"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "confgate_catalog_cache_hits_total",
		Help: "Total number of catalog listings served from the Redis cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "confgate_catalog_cache_misses_total",
		Help: "Total number of catalog listings resolved from the backing catalog",
	})
)

// Redis key prefix for cached type listings, keyed by normalized folder.
const typesKeyPrefix = "catalog:types:"

// DefaultCacheTTL bounds how stale a cached listing may get.
const DefaultCacheTTL = 5 * time.Minute

// CachedCatalog is a cache-aside decorator over another catalog. Folder
// changes need no explicit invalidation because entries are keyed by folder;
// the TTL bounds staleness of a listing whose folder contents changed.
//
// Cache failures degrade to the inner catalog: a broken Redis never makes a
// configuration update fail.
type CachedCatalog struct {
	inner  Catalog
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// CachedOption configures a CachedCatalog.
type CachedOption func(*CachedCatalog)

// WithTTL overrides DefaultCacheTTL.
func WithTTL(ttl time.Duration) CachedOption {
	return func(c *CachedCatalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for cache degradation warnings.
func WithLogger(logger *slog.Logger) CachedOption {
	return func(c *CachedCatalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCached decorates inner with a Redis cache.
func NewCached(inner Catalog, client *redis.Client, opts ...CachedOption) (*CachedCatalog, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner catalog is required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	c := &CachedCatalog{
		inner:  inner,
		client: client,
		ttl:    DefaultCacheTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTypes serves from the cache when possible and falls back to the inner
// catalog, populating the cache on the way out.
func (c *CachedCatalog) ListTypes(ctx context.Context, d hosting.Domain) ([]string, error) {
	key := typesKeyPrefix + folderKey(d.Folder)

	payload, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var types []string
		if jsonErr := json.Unmarshal([]byte(payload), &types); jsonErr == nil {
			cacheHits.Inc()
			return types, nil
		}
		// Unreadable entry: drop it and resolve fresh.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "catalog cache read failed, using backing catalog",
			"folder", d.Folder,
			"error", err,
		)
	}

	cacheMisses.Inc()
	types, err := c.inner.ListTypes(ctx, d)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(types); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "catalog cache write failed",
				"folder", d.Folder,
				"error", setErr,
			)
		}
	}
	return types, nil
}
