package lookup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iwvelando/repair-reserve/internal/cache"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"go.uber.org/zap"
)

// CachedLookup serves found answers from a cache before asking next.
type CachedLookup struct {
	logger *zap.Logger
	next   Lookup
	cache  cache.Repository
	ttl    time.Duration
}

// NewCachedLookup decorates next with repo. Only found answers are cached, so
// a transient miss is retried on the next request.
func NewCachedLookup(logger *zap.Logger, next Lookup, repo cache.Repository, ttl time.Duration) *CachedLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLookup{logger: logger, next: next, cache: repo, ttl: ttl}
}

// Lookup implements Lookup.
func (c *CachedLookup) Lookup(ctx context.Context, name string) (Result, error) {
	key := constants.LookupCacheKeyPrefix + NormalizeName(name)

	if raw, ok := c.cache.Get(ctx, key); ok {
		var res Result
		if err := json.Unmarshal([]byte(raw), &res); err == nil {
			c.logger.Debug("lookup cache hit",
				zap.String("op", "lookup.CachedLookup.Lookup"),
				zap.String("key", key),
			)
			return res, nil
		}
		c.logger.Warn("discarding unreadable lookup cache entry",
			zap.String("op", "lookup.CachedLookup.Lookup"),
			zap.String("key", key),
		)
	}

	res, err := c.next.Lookup(ctx, name)
	if err != nil {
		return Result{}, err
	}

	res = res.Normalize()
	if !res.Found {
		return res, nil
	}

	data, err := json.Marshal(res)
	if err != nil {
		return res, nil
	}
	if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.Warn("failed to cache lookup answer",
			zap.String("op", "lookup.CachedLookup.Lookup"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return res, nil
}
