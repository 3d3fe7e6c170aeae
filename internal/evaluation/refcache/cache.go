// Package refcache keeps the bareme and rubric sets in Redis. They change
// only on import, while every report and detail request reads them.
package refcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"missionsuivi/internal/evaluation/metrics"
	"missionsuivi/internal/evaluation/models"
	id "missionsuivi/pkg/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "missionsuivi:ref:"
	scaleKey   = keyPrefix + "bareme"
	rubricsKey = keyPrefix + "rubriques:"
	defaultTTL = 10 * time.Minute
)

// Source is the authoritative store behind the cache.
type Source interface {
	Scale(ctx context.Context) ([]models.ScaleItem, error)
	Rubrics(ctx context.Context, categoryID id.CategoryID) ([]models.Rubric, error)
}

// Cache reads through to Source on miss. Redis failures are logged and the
// source answers instead; a nil client disables caching.
type Cache struct {
	client  redis.UniversalClient
	source  Source
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

func New(client redis.UniversalClient, source Source, opts ...Option) *Cache {
	c := &Cache{client: client, source: source, ttl: defaultTTL, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Scale(ctx context.Context) ([]models.ScaleItem, error) {
	return readThrough(ctx, c, "bareme", scaleKey, func(ctx context.Context) ([]models.ScaleItem, error) {
		return c.source.Scale(ctx)
	})
}

func (c *Cache) Rubrics(ctx context.Context, categoryID id.CategoryID) ([]models.Rubric, error) {
	key := rubricsKey + categoryID.String()
	return readThrough(ctx, c, "rubriques", key, func(ctx context.Context) ([]models.Rubric, error) {
		return c.source.Rubrics(ctx, categoryID)
	})
}

// Invalidate drops every cached reference set. Importers call it after
// writing the bareme or rubrics.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan reference cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate reference cache: %w", err)
	}
	return nil
}

func readThrough[T any](ctx context.Context, c *Cache, kind, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c.client == nil {
		return load(ctx)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
			c.observe(kind, "hit")
			return out, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable reference cache entry", "key", key)
	case errors.Is(err, redis.Nil):
		c.observe(kind, "miss")
	default:
		c.observe(kind, "error")
		c.logger.WarnContext(ctx, "reference cache read failed", "key", key, "error", err)
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if body, err := json.Marshal(out); err == nil {
		if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "reference cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

func (c *Cache) observe(kind, result string) {
	if c.metrics != nil {
		c.metrics.IncCacheLookup(kind, result)
	}
}
