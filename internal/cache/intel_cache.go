package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
)

// IntelCacheStats tracks cache performance counters.
type IntelCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

func (s *IntelCacheStats) hit()  { s.mu.Lock(); s.Hits++; s.mu.Unlock() }
func (s *IntelCacheStats) miss() { s.mu.Lock(); s.Misses++; s.mu.Unlock() }
func (s *IntelCacheStats) set()  { s.mu.Lock(); s.Sets++; s.mu.Unlock() }

// Snapshot returns a copy of the counters.
func (s *IntelCacheStats) Snapshot() (hits, misses, sets int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Hits, s.Misses, s.Sets
}

// IntelCache is a Redis-backed TTL cache decorating a KeywordIntel source.
// Resolved signals, including "unknown", are cached so repeated evaluations
// of the same keyword do not hammer the underlying collaborator.
type IntelCache struct {
	redis  *redis.Client
	inner  providers.KeywordIntel
	ttl    time.Duration
	stats  *IntelCacheStats
	prefix string
	logger *logrus.Logger
}

// NewIntelCache creates a caching decorator around inner.
func NewIntelCache(redisClient *redis.Client, inner providers.KeywordIntel, ttl time.Duration, logger *logrus.Logger) *IntelCache {
	return &IntelCache{
		redis:  redisClient,
		inner:  inner,
		ttl:    ttl,
		stats:  &IntelCacheStats{},
		prefix: "intel:",
		logger: logger,
	}
}

// Stats returns the cache counters.
func (c *IntelCache) Stats() *IntelCacheStats {
	return c.stats
}

type floatEntry struct {
	Value    *float64  `json:"value"`
	CachedAt time.Time `json:"cached_at"`
}

type intEntry struct {
	Value    *int      `json:"value"`
	CachedAt time.Time `json:"cached_at"`
}

type competitorsEntry struct {
	Competitors []providers.Competitor `json:"competitors"`
	CachedAt    time.Time              `json:"cached_at"`
}

func (c *IntelCache) key(kind, keyword string, marketplace models.Marketplace) string {
	return c.prefix + kind + ":" + string(marketplace) + ":" + keyword
}

// lookup fetches a cached entry into out and reports whether it was present.
// Redis failures count as misses; the caller falls through to the source.
func (c *IntelCache) lookup(ctx context.Context, key string, out interface{}) bool {
	data, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		c.stats.miss()
		return false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis get failed")
		c.stats.miss()
		return false
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Corrupt cache entry, discarding")
		c.stats.miss()
		return false
	}
	c.stats.hit()
	return true
}

// store writes an entry; failures are logged and otherwise ignored.
func (c *IntelCache) store(ctx context.Context, key string, entry interface{}) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache entry marshal failed")
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis set failed")
		return
	}
	c.stats.set()
}

// ClickConcentration implements providers.KeywordIntel.
func (c *IntelCache) ClickConcentration(ctx context.Context, keyword string, marketplace models.Marketplace) (*float64, error) {
	key := c.key("cc", keyword, marketplace)
	var entry floatEntry
	if c.lookup(ctx, key, &entry) {
		return entry.Value, nil
	}
	value, err := c.inner.ClickConcentration(ctx, keyword, marketplace)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, floatEntry{Value: value, CachedAt: time.Now()})
	return value, nil
}

// TopCompetitors implements providers.KeywordIntel. The full ranking is
// cached; the limit is applied on the way out.
func (c *IntelCache) TopCompetitors(ctx context.Context, keyword string, marketplace models.Marketplace, limit int) ([]providers.Competitor, error) {
	key := c.key("competitors", keyword, marketplace)
	var entry competitorsEntry
	if c.lookup(ctx, key, &entry) {
		return truncate(entry.Competitors, limit), nil
	}
	competitors, err := c.inner.TopCompetitors(ctx, keyword, marketplace, 0)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, competitorsEntry{Competitors: competitors, CachedAt: time.Now()})
	return truncate(competitors, limit), nil
}

// TitleDensity implements providers.KeywordIntel.
func (c *IntelCache) TitleDensity(ctx context.Context, keyword string, marketplace models.Marketplace) (*float64, error) {
	key := c.key("td", keyword, marketplace)
	var entry floatEntry
	if c.lookup(ctx, key, &entry) {
		return entry.Value, nil
	}
	value, err := c.inner.TitleDensity(ctx, keyword, marketplace)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, floatEntry{Value: value, CachedAt: time.Now()})
	return value, nil
}

// SearchVolume implements providers.KeywordIntel.
func (c *IntelCache) SearchVolume(ctx context.Context, keyword string, marketplace models.Marketplace) (*int, error) {
	key := c.key("sv", keyword, marketplace)
	var entry intEntry
	if c.lookup(ctx, key, &entry) {
		return entry.Value, nil
	}
	value, err := c.inner.SearchVolume(ctx, keyword, marketplace)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, intEntry{Value: value, CachedAt: time.Now()})
	return value, nil
}

func truncate(competitors []providers.Competitor, limit int) []providers.Competitor {
	if limit > 0 && limit < len(competitors) {
		return competitors[:limit]
	}
	return competitors
}
