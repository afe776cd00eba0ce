// Package cache keeps short-lived copies of the data behind the display
// routes so that page loads do not hit the record store every time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Invalidator drops cached data for display routes.
type Invalidator interface {
	Invalidate(ctx context.Context, routes ...string)
}

// Cache is a read-through store keyed by display route.
type Cache interface {
	Invalidator
	Get(ctx context.Context, route string, dst any) bool
	Set(ctx context.Context, route string, v any)
}

// RedisCache stores JSON values under "view:<route>".
type RedisCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Redis: rdb, TTL: ttl}
}

func cacheKey(route string) string { return "view:" + route }

func (c *RedisCache) Get(ctx context.Context, route string, dst any) bool {
	data, err := c.Redis.Get(ctx, cacheKey(route)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("view cache read failed", "route", route, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("view cache entry unreadable", "route", route, "error", err)
		return false
	}
	return true
}

func (c *RedisCache) Set(ctx context.Context, route string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("view cache encode failed", "route", route, "error", err)
		return
	}
	if err := c.Redis.Set(ctx, cacheKey(route), data, c.TTL).Err(); err != nil {
		slog.Warn("view cache write failed", "route", route, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, routes ...string) {
	if len(routes) == 0 {
		return
	}
	keys := make([]string, len(routes))
	for i, r := range routes {
		keys[i] = cacheKey(r)
	}
	if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("view cache invalidation failed", "routes", routes, "error", err)
	}
}

// Noop caches nothing.
type Noop struct{}

func (Noop) Get(context.Context, string, any) bool { return false }
func (Noop) Set(context.Context, string, any)      {}
func (Noop) Invalidate(context.Context, ...string) {}
