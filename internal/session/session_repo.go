package session

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/khatias/rdbr-project/internal/shared/database"
)

// ProfileRepository keeps the avatar each email registered with, so it
// survives logouts and follows the shopper across browsers.
//
//go:generate mockgen -source=session_repo.go -destination=../mock/session/session_repo_mock.go -package=mock
type ProfileRepository interface {
	GetAvatar(ctx context.Context, email string) (string, error)
	SaveAvatar(ctx context.Context, email, avatar string) error
	DeleteAvatar(ctx context.Context, email string) error
}

const (
	getAvatarSQL = `SELECT avatar FROM storefront_avatars WHERE email = $1`

	saveAvatarSQL = `INSERT INTO storefront_avatars (email, avatar, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (email) DO UPDATE SET avatar = EXCLUDED.avatar, updated_at = NOW()`

	deleteAvatarSQL = `DELETE FROM storefront_avatars WHERE email = $1`
)

type profileRepository struct {
	db database.DBTX
}

func NewProfileRepository(db database.DBTX) ProfileRepository {
	return &profileRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetAvatar returns "" when the email has no avatar.
func (r *profileRepository) GetAvatar(ctx context.Context, email string) (string, error) {
	var avatar string
	err := r.db.QueryRowContext(ctx, getAvatarSQL, normalizeEmail(email)).Scan(&avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return avatar, err
}

func (r *profileRepository) SaveAvatar(ctx context.Context, email, avatar string) error {
	_, err := r.db.ExecContext(ctx, saveAvatarSQL, normalizeEmail(email), avatar)
	return err
}

func (r *profileRepository) DeleteAvatar(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, deleteAvatarSQL, normalizeEmail(email))
	return err
}

type memoryProfileRepository struct {
	mu      sync.RWMutex
	avatars map[string]string
}

func NewMemoryProfileRepository() ProfileRepository {
	return &memoryProfileRepository{avatars: make(map[string]string)}
}

func (r *memoryProfileRepository) GetAvatar(_ context.Context, email string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.avatars[normalizeEmail(email)], nil
}

func (r *memoryProfileRepository) SaveAvatar(_ context.Context, email, avatar string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.avatars[normalizeEmail(email)] = avatar
	return nil
}

func (r *memoryProfileRepository) DeleteAvatar(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.avatars, normalizeEmail(email))
	return nil
}
