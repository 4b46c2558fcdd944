package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/khatias/rdbr-project/internal/cart"
	"github.com/khatias/rdbr-project/internal/config"
	"github.com/khatias/rdbr-project/internal/email"
	"github.com/khatias/rdbr-project/internal/messaging/kafka/consumer"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer reacts to storefront events until SIGINT/SIGTERM.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	logger.Info("[CONSUMER] Starting storefront consumer...")

	if cfg.RedisAddr == "" || cfg.KafkaBroker == "" {
		return errors.New("consumer needs REDIS_ADDR and KAFKA_BROKER")
	}

	// 1. Connect to Redis
	rdb, err := connectRedisWithRetry(cfg.RedisAddr, 5, logger)
	if err != nil {
		return err
	}
	defer rdb.Close()

	mailer, err := email.NewResendServiceFromEnv()
	if err != nil {
		logger.Warn("[CONSUMER] Order confirmation mails disabled", zap.Error(err))
		mailer = email.NewNoopService()
	}

	// 2. Setup Kafka reader
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	})
	defer reader.Close()
	logger.Info("[CONSUMER] Kafka reader initialized", zap.String("topic", cfg.KafkaTopic))

	// 3. Start consuming
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeMessages(ctx, reader, consumer.Deps{
			Cache:  cart.NewImageCacheCleaner(rdb),
			Mailer: mailer,
			Logger: logger,
		})
	}()

	// 4. Graceful shutdown
	<-ctx.Done()
	logger.Info("[CONSUMER] Shutting down...")
	<-done
	logger.Info("[CONSUMER] Stopped")

	return nil
}
