package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=session_store.go -destination=../mock/session/session_store_mock.go -package=mock
type Store interface {
	Get(ctx context.Context, sessionKey string) (Context, bool, error)
	Put(ctx context.Context, sc Context) error
	Delete(ctx context.Context, sessionKey string) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func StoreKey(sessionKey string) string {
	return "session:ctx:" + sessionKey
}

func (s *RedisStore) Get(ctx context.Context, sessionKey string) (Context, bool, error) {
	raw, err := s.rdb.Get(ctx, StoreKey(sessionKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Context{}, false, nil
	}
	if err != nil {
		return Context{}, false, err
	}

	var sc Context
	if err := json.Unmarshal(raw, &sc); err != nil {
		return Context{}, false, err
	}
	sc.SessionKey = sessionKey
	return sc, true, nil
}

func (s *RedisStore) Put(ctx context.Context, sc Context) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, StoreKey(sc.SessionKey), raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionKey string) error {
	return s.rdb.Del(ctx, StoreKey(sessionKey)).Err()
}

type memoryEntry struct {
	sc        Context
	expiresAt time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionKey string) (Context, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionKey]
	if !ok {
		return Context{}, false, nil
	}
	if s.ttl > 0 && s.now().After(e.expiresAt) {
		delete(s.entries, sessionKey)
		return Context{}, false, nil
	}
	return e.sc, true, nil
}

func (s *MemoryStore) Put(_ context.Context, sc Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sc.SessionKey] = memoryEntry{sc: sc, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionKey)
	return nil
}
