package session

import "time"

// Context is what the storefront knows about a logged-in shopper beyond the
// upstream token: who they are and which avatar the header shows.
type Context struct {
	SessionKey string    `json:"-"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

type EventType string

const (
	EventSessionStarted EventType = "session.started"
	EventSessionEnded   EventType = "session.ended"
	EventAvatarChanged  EventType = "avatar.changed"
)

type Event struct {
	Type       EventType `json:"type"`
	SessionKey string    `json:"-"`
	Email      string    `json:"email,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	At         time.Time `json:"at"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar"`
}
