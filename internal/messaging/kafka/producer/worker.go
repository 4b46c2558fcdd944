package producer

import (
	"context"
	"time"

	"github.com/khatias/rdbr-project/internal/outbox"

	"go.uber.org/zap"
)

const (
	pollInterval = 5 * time.Second
	batchSize    = 10
)

func ProcessOutboxEvents(ctx context.Context, repo outbox.Repository, writer MessageWriter, logger *zap.Logger) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	logger.Info("[WORKER] Outbox processor started", zap.Duration("interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("[WORKER] Outbox processor stopped")
			return
		case <-ticker.C:
			if err := processPendingEvents(ctx, repo, writer, logger); err != nil {
				logger.Error("[WORKER] Error processing events", zap.Error(err))
			}
		}
	}
}

func processPendingEvents(ctx context.Context, repo outbox.Repository, writer MessageWriter, logger *zap.Logger) error {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger.Info("[WORKER] Processing pending events", zap.Int("count", len(events)))

	for _, event := range events {
		id := event.ID.String()

		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Error("[WORKER] Failed to publish event", zap.String("id", id), zap.Error(err))
			if err := repo.MarkFailed(ctx, event.ID); err != nil {
				logger.Error("[WORKER] Failed to mark event as FAILED", zap.String("id", id), zap.Error(err))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("[WORKER] Failed to mark event as SENT", zap.String("id", id), zap.Error(err))
			continue
		}

		logger.Info("[WORKER] Event sent", zap.String("id", id), zap.String("event_type", event.EventType))
	}

	return nil
}
