// Package nutrition decorates a nutrition lookup with caching. USDA data
// changes rarely, so found results are cached for the configured TTL.
package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

const defaultTTL = 720 * time.Hour // 30 days

// nonAlphanumericRegex normalizes cache key components
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9 ]`)

// CachedLookup wraps a NutritionLookup with a TTL cache
type CachedLookup struct {
	inner  domain.NutritionLookup
	cache  domain.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedLookup creates the caching decorator. A zero TTL means 30 days.
func NewCachedLookup(inner domain.NutritionLookup, cache domain.CacheRepository, ttl time.Duration, logger *zap.Logger) *CachedLookup {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLookup{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Lookup checks the cache first, then the wrapped lookup. Only found results
// are cached; misses go back to the source every time. Cache failures never
// fail a lookup.
func (c *CachedLookup) Lookup(ctx context.Context, name string) (domain.NutritionFacts, error) {
	key := cacheKey(name)

	if data, err := c.cache.Get(ctx, key); err == nil {
		var facts domain.NutritionFacts
		if err := json.Unmarshal(data, &facts); err == nil {
			return facts, nil
		}
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
		c.cache.Delete(ctx, key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	facts, err := c.inner.Lookup(ctx, name)
	if err != nil {
		return facts, err
	}

	if facts.Found {
		if data, err := json.Marshal(facts); err == nil {
			if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
				c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return facts, nil
}

// cacheKey normalizes an ingredient name into a stable cache key
func cacheKey(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	return "nutrition:" + strings.Join(strings.Fields(normalized), " ")
}
