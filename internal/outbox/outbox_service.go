package outbox

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder appends domain events to the outbox. The worker binary publishes
// them to Kafka.
//
//go:generate mockgen -source=outbox_service.go -destination=../mock/outbox/outbox_service_mock.go -package=mock
type Recorder interface {
	Record(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("outbox.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("outbox.recorder")
	}
	return &recorder{repo: repo, logger: l}
}

func (r *recorder) Record(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	id := uuid.New()
	if err := r.repo.CreateEvent(ctx, CreateEventParams{
		ID:            id,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       raw,
	}); err != nil {
		r.logger.Error("failed to create outbox event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}

	r.logger.Debug("outbox event recorded",
		zap.String("id", id.String()),
		zap.String("event_type", eventType),
	)
	return nil
}

// noopRecorder is used when no database is configured.
type noopRecorder struct {
	logger *zap.Logger
}

func NewNoopRecorder(logger ...*zap.Logger) Recorder {
	l := zap.L().Named("outbox.noop")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("outbox.noop")
	}
	return &noopRecorder{logger: l}
}

func (r *noopRecorder) Record(_ context.Context, _, _, eventType string, _ any) error {
	r.logger.Debug("outbox disabled, event dropped", zap.String("event_type", eventType))
	return nil
}
