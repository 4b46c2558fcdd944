package outbox

import (
	"context"
	"database/sql"

	"github.com/khatias/rdbr-project/internal/shared/database"

	"github.com/google/uuid"
)

//go:generate mockgen -source=outbox_repo.go -destination=../mock/outbox/outbox_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx database.DBTX) Repository
	CreateEvent(ctx context.Context, arg CreateEventParams) error
	ListPending(ctx context.Context, limit int32) ([]Event, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

const (
	createEventSQL = `INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload)
VALUES ($1, $2, $3, $4, $5)`

	listPendingSQL = `SELECT id, aggregate_type, aggregate_id, event_type, payload, status, created_at, sent_at
FROM outbox_events
WHERE status = 'PENDING'
ORDER BY created_at
LIMIT $1`

	markSentSQL = `UPDATE outbox_events SET status = 'SENT', sent_at = NOW() WHERE id = $1`

	markFailedSQL = `UPDATE outbox_events SET status = 'FAILED' WHERE id = $1`
)

type outboxRepository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Repository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx database.DBTX) Repository {
	if sqlTx, ok := tx.(*sql.Tx); ok {
		return &outboxRepository{db: sqlTx}
	}
	return r
}

func (r *outboxRepository) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := r.db.ExecContext(ctx, createEventSQL,
		arg.ID,
		arg.AggregateType,
		arg.AggregateID,
		arg.EventType,
		arg.Payload,
	)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int32) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, listPendingSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&e.Payload,
			&e.Status,
			&e.CreatedAt,
			&e.SentAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, markSentSQL, id)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, markFailedSQL, id)
	return err
}
