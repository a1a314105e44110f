package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"survey-service/internal/config"
	"survey-service/internal/repository"
	utils "survey-service/shared/utils"

	"github.com/patrickmn/go-cache"
)

const analyticsKeyPrefix = "survey:analytics:"

// AnalyticsCache keeps computed snapshots in process memory and, when a
// remote store is configured, in Redis so replicas share them. A failing
// remote store only costs a recomputation.
type AnalyticsCache struct {
	local     *cache.Cache
	remote    SnapshotStore
	remoteTTL time.Duration
}

func NewAnalyticsCache(remote SnapshotStore, cfg config.CacheConfig) *AnalyticsCache {
	return &AnalyticsCache{
		local:     cache.New(cfg.LocalTTL, cfg.LocalPurge),
		remote:    remote,
		remoteTTL: cfg.RedisTTL,
	}
}

func (c *AnalyticsCache) key(name string) string {
	return analyticsKeyPrefix + name
}

func (c *AnalyticsCache) get(ctx context.Context, name string) ([]byte, bool) {
	key := c.key(name)
	if data, ok := c.local.Get(key); ok {
		return data.([]byte), true
	}

	if c.remote == nil {
		return nil, false
	}
	data, err := c.remote.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			slog.Warn("analytics cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	c.local.SetDefault(key, data)
	return data, true
}

func (c *AnalyticsCache) drop(name string) {
	c.local.Delete(c.key(name))
}

func (c *AnalyticsCache) set(ctx context.Context, name string, value any) {
	key := c.key(name)
	data, err := utils.SerializeModel(value)
	if err != nil {
		slog.Warn("failed to serialize analytics snapshot", "key", key, "error", err)
		return
	}
	c.local.SetDefault(key, data)

	if c.remote == nil {
		return
	}
	if err := c.remote.Set(ctx, key, data, c.remoteTTL); err != nil {
		slog.Warn("analytics cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops every snapshot. It is called whenever surveys change.
func (c *AnalyticsCache) Invalidate(ctx context.Context) error {
	c.local.Flush()
	if c.remote == nil {
		return nil
	}
	removed, err := c.remote.DeleteByPattern(ctx, analyticsKeyPrefix+"*")
	if err != nil {
		slog.Error("failed to invalidate analytics cache", "error", err)
		return err
	}
	slog.Info("analytics cache invalidated", "removed", removed)
	return nil
}

// cached returns the snapshot stored under name or builds and stores it.
// Build errors are returned without caching.
func cached[T any](ctx context.Context, c *AnalyticsCache, name string, build func() (T, error)) (T, error) {
	var out T
	if c == nil {
		return build()
	}
	if data, ok := c.get(ctx, name); ok {
		if err := utils.DeserializeModel(data, &out); err == nil {
			return out, nil
		}
		slog.Warn("discarding unreadable analytics snapshot", "key", c.key(name))
		c.drop(name)
	}

	out, err := build()
	if err != nil {
		return out, err
	}
	c.set(ctx, name, out)
	return out, nil
}
