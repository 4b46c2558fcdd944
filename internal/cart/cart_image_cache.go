package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ImageCache remembers the thumbnail a shopper picked for a variant, because
// the upstream does not echo images back reliably. It is best effort:
// implementations log their own failures.
type ImageCache interface {
	Get(ctx context.Context, key VariantKey) (string, bool)
	Set(ctx context.Context, key VariantKey, image string)
	Delete(ctx context.Context, key VariantKey)
}

// ImageCacheFactory returns the cache owned by one session's core.
type ImageCacheFactory func(sessionKey string) ImageCache

type MemoryImageCache struct {
	mu     sync.RWMutex
	images map[VariantKey]string
}

func NewMemoryImageCache() *MemoryImageCache {
	return &MemoryImageCache{images: make(map[VariantKey]string)}
}

func (m *MemoryImageCache) Get(_ context.Context, key VariantKey) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[key]
	return img, ok
}

func (m *MemoryImageCache) Set(_ context.Context, key VariantKey, image string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[key] = image
}

func (m *MemoryImageCache) Delete(_ context.Context, key VariantKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, key)
}

// RedisImageCache keeps one hash per session so every API instance serving
// the shopper sees the same thumbnails.
type RedisImageCache struct {
	rdb    *redis.Client
	hash   string
	ttl    time.Duration
	logger *zap.Logger
}

func ImageCacheKey(sessionKey string) string {
	return "cart:images:" + sessionKey
}

func NewRedisImageCache(rdb *redis.Client, sessionKey string, ttl time.Duration, logger ...*zap.Logger) *RedisImageCache {
	l := zap.L().Named("cart.image_cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cart.image_cache")
	}
	return &RedisImageCache{
		rdb:    rdb,
		hash:   ImageCacheKey(sessionKey),
		ttl:    ttl,
		logger: l,
	}
}

func (r *RedisImageCache) Get(ctx context.Context, key VariantKey) (string, bool) {
	img, err := r.rdb.HGet(ctx, r.hash, key.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("image cache read failed", zap.String("variant", key.String()), zap.Error(err))
		}
		return "", false
	}
	return img, true
}

func (r *RedisImageCache) Set(ctx context.Context, key VariantKey, image string) {
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, r.hash, key.String(), image)
	pipe.Expire(ctx, r.hash, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("image cache write failed", zap.String("variant", key.String()), zap.Error(err))
	}
}

func (r *RedisImageCache) Delete(ctx context.Context, key VariantKey) {
	if err := r.rdb.HDel(ctx, r.hash, key.String()).Err(); err != nil {
		r.logger.Warn("image cache delete failed", zap.String("variant", key.String()), zap.Error(err))
	}
}

// ClearSession drops every cached thumbnail of a session.
func ClearSession(ctx context.Context, rdb *redis.Client, sessionKey string) error {
	return rdb.Del(ctx, ImageCacheKey(sessionKey)).Err()
}

// ImageCacheCleaner clears whole sessions, for processes that do not own a
// session's cache.
type ImageCacheCleaner struct {
	rdb *redis.Client
}

func NewImageCacheCleaner(rdb *redis.Client) *ImageCacheCleaner {
	return &ImageCacheCleaner{rdb: rdb}
}

func (c *ImageCacheCleaner) ClearSession(ctx context.Context, sessionKey string) error {
	return ClearSession(ctx, c.rdb, sessionKey)
}
