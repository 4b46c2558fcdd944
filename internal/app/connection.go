package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const retryDelay = 5 * time.Second

func connectDBWithRetry(dsn string, maxRetries int, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				logger.Info("connected to database")
				return db, nil
			}
			_ = db.Close()
		}

		logger.Warn("database retry failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}

	return nil, err
}

func connectRedisWithRetry(addr string, maxRetries int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			logger.Info("connected to redis")
			return rdb, nil
		}

		logger.Warn("redis retry failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect redis at %s", addr)
}

func connectKafkaWithRetry(broker, topic string, maxRetries int, logger *zap.Logger) (*kafka.Writer, error) {
	for i := 1; i <= maxRetries; i++ {
		conn, err := kafka.Dial("tcp", broker)
		if err == nil {
			conn.Close()
			logger.Info("connected to kafka")
			return &kafka.Writer{
				Addr:     kafka.TCP(broker),
				Topic:    topic,
				Balancer: &kafka.Hash{},
			}, nil
		}

		logger.Warn("kafka retry failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect kafka at %s", broker)
}
