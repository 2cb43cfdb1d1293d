// Package answercache stores synthesized answers keyed by normalized query
// text. Lookups degrade to a miss when the store is unreachable; writes are
// best-effort and never surfaced to the caller.
package answercache

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/db"
	"github.com/motorq/concierge/internal/domain"
)

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is the key-value response cache.
type Cache struct {
	store      store
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an answer cache. ttl is fixed per deployment, not per entry.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		store:      s,
		keyPrefix:  keyPrefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Lookup returns the cached answer for a query. A store failure is logged
// and reported as a miss so one unreachable cache never aborts the request.
func (c *Cache) Lookup(ctx context.Context, query string) (string, bool) {
	key := c.key(query)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("answer cache lookup degraded to miss",
				zap.String("key", key),
				zap.Error(errors.Join(domain.ErrCacheUnavailable, err)),
			)
		}
		c.incCache("miss")
		return "", false
	}
	if len(data) == 0 {
		c.incCache("miss")
		return "", false
	}

	c.incCache("hit")
	return string(data), true
}

// Store writes an answer back with the fixed TTL. Failures are logged and
// swallowed; the computed answer is already on its way to the caller.
func (c *Cache) Store(ctx context.Context, query, answer string) {
	key := c.key(query)

	if err := c.store.SetWithTTL(ctx, key, []byte(answer), c.ttl); err != nil {
		c.logger.Warn("answer cache write-back failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (c *Cache) key(query string) string {
	return c.keyPrefix + domain.NormalizeQuery(query)
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
