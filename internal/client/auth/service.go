package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/supaship/internal/client/api"
	"github.com/iudanet/supaship/internal/client/notify"
	"github.com/iudanet/supaship/internal/client/storage"
	"github.com/iudanet/supaship/internal/validation"
	pkgapi "github.com/iudanet/supaship/pkg/api"
)

var (
	// ErrNotSignedIn возвращается, когда сохраненной сессии нет
	ErrNotSignedIn = errors.New("not signed in")

	// ErrSessionExpired возвращается, когда сервер отклонил refresh token.
	// Локальная сессия к этому моменту уже удалена.
	ErrSessionExpired = errors.New("session expired, please login again")
)

// Service is the client-side Session Provider: it signs in and out through
// the server, keeps the session in local storage and notifies subscribers
// about every session change.
type Service struct {
	client  APIClient
	store   storage.SessionStorage
	logger  *slog.Logger
	changes *notify.Broadcaster[*Session]
	now     func() time.Time
	mu      sync.Mutex
}

// NewService создает новый сервис авторизации.
// Пока не вызван Restore, подписчики видят состояние "не авторизован".
func NewService(client APIClient, store storage.SessionStorage, logger *slog.Logger) *Service {
	s := &Service{
		client:  client,
		store:   store,
		logger:  logger,
		changes: notify.New[*Session](),
		now:     time.Now,
	}
	s.changes.Publish(nil)
	return s
}

// Subscribe returns a channel of session changes. The current session
// (nil when logged out) is delivered immediately.
func (s *Service) Subscribe() (<-chan *Session, func()) {
	return s.changes.Subscribe()
}

// Restore загружает сохраненную сессию и публикует ее подписчикам
func (s *Service) Restore(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			s.changes.Publish(nil)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session := sessionFromData(data)
	s.changes.Publish(session.clone())
	return session, nil
}

// SignUp создает аккаунт на сервере и сохраняет выданную сессию
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.client.SignUp(ctx, pkgapi.SignUpRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("sign up failed: %w", err)
	}

	return s.establish(ctx, resp)
}

// SignIn выполняет вход и сохраняет выданную сессию
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("invalid password: password cannot be empty")
	}

	resp, err := s.client.SignIn(ctx, pkgapi.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}

	return s.establish(ctx, resp)
}

// SignOut удаляет локальную сессию и уведомляет сервер.
// Недоступность сервера не мешает локальному выходу.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.GetSession(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		s.logger.Debug("no session found during sign out")
	case err != nil:
		return fmt.Errorf("failed to load session: %w", err)
	default:
		if err := s.client.SignOut(ctx, data.AccessToken); err != nil {
			s.logger.Warn("failed to sign out on server", "error", err)
		}
	}

	return s.dropLocked(ctx)
}

// Current returns the stored session, refreshing the access token if it
// has expired. A refresh rejected by the server signs out locally and
// returns ErrSessionExpired.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session := sessionFromData(data)
	if !session.Expired(s.now()) {
		return session, nil
	}

	s.logger.Debug("access token expired, refreshing", "account_id", session.AccountID)

	resp, err := s.client.Refresh(ctx, session.RefreshToken)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			s.logger.Info("refresh rejected, signing out locally", "status", apiErr.Status)
			if dropErr := s.dropLocked(ctx); dropErr != nil {
				return nil, dropErr
			}
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	return s.saveLocked(ctx, resp, session.SignedInAt)
}

// AccessToken возвращает действующий access token текущей сессии
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

func (s *Service) establish(ctx context.Context, resp *pkgapi.SessionResponse) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, resp, s.now())
}

// saveLocked сохраняет сессию и публикует ее. Вызывается под s.mu.
func (s *Service) saveLocked(ctx context.Context, resp *pkgapi.SessionResponse, signedInAt time.Time) (*Session, error) {
	session := &Session{
		ExpiresAt:    s.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		SignedInAt:   signedInAt,
		AccountID:    resp.AccountID,
		Email:        resp.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}

	if err := s.store.SaveSession(ctx, session.data()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.changes.Publish(session.clone())
	return session, nil
}

// dropLocked удаляет локальную сессию и публикует nil. Вызывается под s.mu.
func (s *Service) dropLocked(ctx context.Context) error {
	if err := s.store.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}
	s.changes.Publish(nil)
	return nil
}
