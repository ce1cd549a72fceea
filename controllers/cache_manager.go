package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	CatalogCachePrefix = "catalog:v:"
	CacheVersionKey    = "catalog:version"

	cacheKeyMenu     = "menu"
	cacheKeyProducts = "products"
)

func cacheKeyCategory(categoryID int) string {
	return "category:" + strconv.Itoa(categoryID)
}

// CacheManager caches successful read envelopes in Redis. Writes bump a
// version counter so every cached entry goes stale at once. A nil manager or
// a manager without a client is a no-op.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(client *redis.Client, ttl time.Duration) *CacheManager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheManager{redis: client, ttl: ttl}
}

func (cm *CacheManager) enabled() bool {
	return cm != nil && cm.redis != nil
}

// Get returns the cached JSON for name under the current version. On a miss
// it still returns the version it read so the caller can hand it to SetAsync;
// a version of 0 means the cache is unavailable.
func (cm *CacheManager) Get(ctx context.Context, name string) ([]byte, int64, bool) {
	if !cm.enabled() {
		return nil, 0, false
	}

	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, 0, false
	}

	data, err := cm.redis.Get(ctx, cm.key(version, name)).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("Failed to read catalog cache", zap.String("key", name), zap.Error(err))
		}
		return nil, version, false
	}
	return data, version, true
}

// SetAsync caches value under name for the version observed before the value
// was built. A write that bumped the version in between leaves the entry
// under a dead version where no reader looks.
func (cm *CacheManager) SetAsync(version int64, name string, value interface{}) {
	if !cm.enabled() || version == 0 {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("Failed to marshal value for cache", zap.String("key", name), zap.Error(err))
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cm.redis.Set(bgCtx, cm.key(version, name), payload, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to write catalog cache", zap.String("key", name), zap.Error(err))
		}
	}()
}

// Invalidate bumps the version so every cached envelope is skipped from now on.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if !cm.enabled() {
		return
	}

	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		zap.L().Error("Failed to invalidate catalog cache", zap.Error(err))
		return
	}
	zap.L().Debug("Catalog cache invalidated", zap.Int64("new_version", newVersion))
}

// getCacheVersion reads the version key, creating it at 1 on first use.
func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if err == redis.Nil {
			// SetNX so a concurrent Incr is not overwritten
			if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
				continue
			}
		}

		if i < maxRetries-1 {
			time.Sleep(time.Millisecond * 50)
		}
	}

	return 0, fmt.Errorf("failed to get cache version after %d retries", maxRetries)
}

func (cm *CacheManager) key(version int64, name string) string {
	return fmt.Sprintf("%s%d:%s", CatalogCachePrefix, version, name)
}
