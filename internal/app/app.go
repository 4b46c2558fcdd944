package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khatias/rdbr-project/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// infra holds the optional backing services. Nil fields fall back to
// in-memory implementations.
type infra struct {
	db  *sql.DB
	rdb *redis.Client
}

func (i infra) close() {
	if i.db != nil {
		_ = i.db.Close()
	}
	if i.rdb != nil {
		_ = i.rdb.Close()
	}
}

// BuildApp connects the configured infrastructure and registers every
// route on router. The returned func stops background work and closes
// connections.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	// prices go out as JSON numbers, as the upstream sends them
	decimal.MarshalJSONWithoutQuotes = true

	fee, err := decimal.NewFromString(cfg.DeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE %q: %w", cfg.DeliveryFee, err)
	}

	// 1. Setup Infrastructure
	var in infra
	if cfg.DatabaseURL != "" {
		if in.db, err = connectDBWithRetry(cfg.DatabaseURL, 5, logger); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("DB_URL not set, avatars kept in memory and checkout events dropped")
	}

	if cfg.RedisAddr != "" {
		if in.rdb, err = connectRedisWithRetry(cfg.RedisAddr, 5, logger); err != nil {
			in.close()
			return nil, err
		}
	} else {
		logger.Warn("REDIS_ADDR not set, sessions and image cache kept in memory")
	}

	// 2. Register Modules & Routes
	ctx, cancel := context.WithCancel(context.Background())
	registerModules(ctx, router, cfg, in, fee, logger)

	return func() {
		cancel()
		in.close()
	}, nil
}
