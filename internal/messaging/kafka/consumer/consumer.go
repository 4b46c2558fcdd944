package consumer

import (
	"context"
	"errors"

	"github.com/khatias/rdbr-project/internal/checkout"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ConsumeMessages runs until ctx is done. Handled, unknown and malformed
// messages are committed. Other handler failures are left for redelivery.
func ConsumeMessages(ctx context.Context, reader MessageReader, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = zap.L()
	}
	logger := deps.Logger
	logger.Info("[CONSUMER] Started consuming messages")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("[CONSUMER] Stopped")
				return
			}
			logger.Error("[CONSUMER] Error fetching message", zap.Error(err))
			continue
		}

		eventType := getHeader(msg.Headers, "event_type")

		switch eventType {
		case checkout.EventCheckoutCompleted:
			if err := handleCheckoutCompleted(ctx, msg.Value, deps); err != nil {
				logger.Error("[CONSUMER] Error handling event",
					zap.String("event_type", eventType),
					zap.Error(err),
				)
				if !errors.Is(err, errMalformedPayload) {
					continue
				}
			}
		default:
			logger.Debug("[CONSUMER] Skipping event", zap.String("event_type", eventType))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error("[CONSUMER] Error committing message", zap.Error(err))
		}
	}
}
