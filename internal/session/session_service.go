package session

import (
	"context"
	"time"

	sessionerrors "github.com/khatias/rdbr-project/internal/session/errors"

	"go.uber.org/zap"
)

type Service interface {
	Start(ctx context.Context, sessionKey, email string) (Context, error)
	End(ctx context.Context, sessionKey string) error
	Current(ctx context.Context, sessionKey string) (Context, error)
	SetAvatar(ctx context.Context, sessionKey, avatar string) (Context, error)
	RegisterAvatar(ctx context.Context, email, avatar string) error
	Subscribe(sessionKey string) (<-chan Event, func())
}

type service struct {
	store    Store
	profiles ProfileRepository
	hub      *Hub
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(store Store, profiles ProfileRepository, hub *Hub, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	return &service{
		store:    store,
		profiles: profiles,
		hub:      hub,
		now:      time.Now,
		logger:   l,
	}
}

// Start marks email as the current user of the session and loads the
// avatar registered for it.
func (s *service) Start(ctx context.Context, sessionKey, email string) (Context, error) {
	avatar, err := s.profiles.GetAvatar(ctx, email)
	if err != nil {
		// the header falls back to the placeholder icon
		s.logger.Warn("avatar lookup failed", zap.Error(err))
		avatar = ""
	}

	sc := Context{
		SessionKey: sessionKey,
		Email:      normalizeEmail(email),
		Avatar:     avatar,
		StartedAt:  s.now(),
	}
	if err := s.store.Put(ctx, sc); err != nil {
		return Context{}, err
	}

	s.hub.Publish(Event{
		Type:       EventSessionStarted,
		SessionKey: sessionKey,
		Email:      sc.Email,
		Avatar:     sc.Avatar,
		At:         sc.StartedAt,
	})
	return sc, nil
}

func (s *service) End(ctx context.Context, sessionKey string) error {
	if err := s.store.Delete(ctx, sessionKey); err != nil {
		return err
	}
	s.hub.Publish(Event{Type: EventSessionEnded, SessionKey: sessionKey, At: s.now()})
	return nil
}

func (s *service) Current(ctx context.Context, sessionKey string) (Context, error) {
	sc, ok, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		return Context{}, err
	}
	if !ok {
		return Context{}, sessionerrors.ErrSessionNotFound
	}
	return sc, nil
}

// SetAvatar replaces the avatar of the current user. An empty avatar
// removes it.
func (s *service) SetAvatar(ctx context.Context, sessionKey, avatar string) (Context, error) {
	if err := ValidateAvatar(avatar); err != nil {
		return Context{}, err
	}

	sc, err := s.Current(ctx, sessionKey)
	if err != nil {
		return Context{}, err
	}

	if err := s.RegisterAvatar(ctx, sc.Email, avatar); err != nil {
		return Context{}, err
	}

	sc.Avatar = avatar
	if err := s.store.Put(ctx, sc); err != nil {
		return Context{}, err
	}

	s.hub.Publish(Event{
		Type:       EventAvatarChanged,
		SessionKey: sessionKey,
		Email:      sc.Email,
		Avatar:     avatar,
		At:         s.now(),
	})
	return sc, nil
}

// RegisterAvatar stores the avatar of email without touching any session.
// An empty avatar removes the stored one.
func (s *service) RegisterAvatar(ctx context.Context, email, avatar string) error {
	if avatar == "" {
		return s.profiles.DeleteAvatar(ctx, email)
	}
	if err := ValidateAvatar(avatar); err != nil {
		return err
	}
	return s.profiles.SaveAvatar(ctx, email, avatar)
}

func (s *service) Subscribe(sessionKey string) (<-chan Event, func()) {
	return s.hub.Subscribe(sessionKey)
}
