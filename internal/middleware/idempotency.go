package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/khatias/rdbr-project/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader      = "Idempotency-Key"
	CtxIdempotencyLockKey  = "idempotency_lock_key"
	CtxIdempotencyCacheKey = "idempotency_cache_key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

// Idempotency replays a cached response for a repeated Idempotency-Key and
// rejects a duplicate that arrives while the first is still running. With a
// nil client it is a pass-through.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	logger := zap.L().Named("middleware.idempotency")
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if rdb == nil || key == "" {
			c.Next()
			return
		}

		scope := SessionKeyFrom(c)
		if scope == "" {
			scope = "ip:" + c.ClientIP()
		}
		cacheKey := "idempotency:response:" + scope + ":" + key
		lockKey := "idempotency:lock:" + scope + ":" + key
		ctx := c.Request.Context()

		if cached, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			c.Header("Idempotent-Replay", "true")
			response.Success(c, http.StatusOK, json.RawMessage(cached), nil)
			c.Abort()
			return
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock unavailable, continuing", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "A request with this idempotency key is already being processed", nil)
			c.Abort()
			return
		}

		c.Set(CtxIdempotencyLockKey, lockKey)
		c.Set(CtxIdempotencyCacheKey, cacheKey)
		c.Next()
	}
}

// ReleaseIdempotency drops the in-flight lock taken by Idempotency.
func ReleaseIdempotency(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lockKey := c.GetString(CtxIdempotencyLockKey); lockKey != "" {
		rdb.Del(c.Request.Context(), lockKey)
	}
}

// CacheIdempotentResponse stores the data of a successful response. A replay
// wraps it in the response envelope again, with its own request id.
func CacheIdempotentResponse(c *gin.Context, rdb *redis.Client, body []byte) {
	if rdb == nil {
		return
	}
	if cacheKey := c.GetString(CtxIdempotencyCacheKey); cacheKey != "" {
		rdb.Set(c.Request.Context(), cacheKey, body, idempotencyCacheTTL)
	}
}
