package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/khatias/rdbr-project/internal/config"
	"github.com/khatias/rdbr-project/internal/messaging/kafka/producer"
	"github.com/khatias/rdbr-project/internal/outbox"

	"go.uber.org/zap"
)

// RunWorker publishes pending outbox events to Kafka until SIGINT/SIGTERM.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	logger.Info("[WORKER] Starting outbox processor...")

	if cfg.DatabaseURL == "" || cfg.KafkaBroker == "" {
		return errors.New("worker needs DB_URL and KAFKA_BROKER")
	}

	// 1. Connect to database
	db, err := connectDBWithRetry(cfg.DatabaseURL, 5, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Setup Kafka writer
	writer, err := connectKafkaWithRetry(cfg.KafkaBroker, cfg.KafkaTopic, 5, logger)
	if err != nil {
		return err
	}
	defer writer.Close()
	logger.Info("[WORKER] Kafka writer initialized", zap.String("topic", cfg.KafkaTopic))

	// 3. Start processor
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		producer.ProcessOutboxEvents(ctx, outbox.NewRepository(db), writer, logger)
	}()

	// 4. Graceful shutdown
	<-ctx.Done()
	logger.Info("[WORKER] Shutting down...")
	<-done
	logger.Info("[WORKER] Stopped")

	return nil
}
