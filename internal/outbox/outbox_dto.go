package outbox

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
)

type Event struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Status        string
	CreatedAt     time.Time
	SentAt        sql.NullTime
}

type CreateEventParams struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}
