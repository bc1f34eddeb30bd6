package storage

import (
	"context"
	"time"
)

// SessionStorage хранит текущую сессию клиента между запусками
type SessionStorage interface {
	// SaveSession сохраняет сессию, заменяя предыдущую
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession возвращает сохраненную сессию.
	// Returns ErrSessionNotFound if nobody is signed in.
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession удаляет сессию (logout). Отсутствие сессии не является ошибкой.
	DeleteSession(ctx context.Context) error
}

// SessionData represents a persisted session
type SessionData struct {
	ExpiresAt    time.Time `json:"expires_at"`
	SignedInAt   time.Time `json:"signed_in_at"`
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// Expired reports whether the access token is no longer usable at now.
func (s *SessionData) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
