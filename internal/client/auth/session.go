package auth

import (
	"time"

	"github.com/iudanet/supaship/internal/client/storage"
)

// Session is an authenticated session as seen by the client.
// Values handed out by Service are copies; mutating them has no effect.
// SignedInAt не меняется при обновлении токенов, только при новом входе.
type Session struct {
	ExpiresAt    time.Time
	SignedInAt   time.Time
	AccountID    string
	Email        string
	AccessToken  string
	RefreshToken string
}

// Expired reports whether the access token is no longer usable at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SameSignIn reports whether other continues this sign-in, e.g. after a token rotation
func (s *Session) SameSignIn(other *Session) bool {
	if s == nil || other == nil {
		return false
	}
	return s.AccountID == other.AccountID && s.SignedInAt.Equal(other.SignedInAt)
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func sessionFromData(d *storage.SessionData) *Session {
	return &Session{
		ExpiresAt:    d.ExpiresAt,
		SignedInAt:   d.SignedInAt,
		AccountID:    d.AccountID,
		Email:        d.Email,
		AccessToken:  d.AccessToken,
		RefreshToken: d.RefreshToken,
	}
}

func (s *Session) data() *storage.SessionData {
	return &storage.SessionData{
		ExpiresAt:    s.ExpiresAt,
		SignedInAt:   s.SignedInAt,
		AccountID:    s.AccountID,
		Email:        s.Email,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}
