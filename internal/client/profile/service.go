package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/supaship/internal/client/api"
	"github.com/iudanet/supaship/internal/models"
	pkgapi "github.com/iudanet/supaship/pkg/api"
)

var (
	// ErrProfileNotFound возвращается, когда у аккаунта нет профиля
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUsernameTaken возвращается, когда username уже занят другим аккаунтом
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUsernameAlreadySet возвращается, когда аккаунт уже выбрал username
	ErrUsernameAlreadySet = errors.New("username already set")

	// ErrForbidden возвращается, когда сервер отклонил запись чужого профиля
	ErrForbidden = errors.New("forbidden")
)

// APIClient описывает методы сервера для работы с профилями
type APIClient interface {
	GetProfile(ctx context.Context, accountID string) (*pkgapi.ProfileResponse, error)
	ClaimUsername(ctx context.Context, accessToken string, req pkgapi.ClaimUsernameRequest) (*pkgapi.ProfileResponse, error)
}

// TokenSource выдает действующий access token
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Service is the client view of the Profile Store
type Service struct {
	client APIClient
	tokens TokenSource
}

// NewService создает сервис профилей
func NewService(client APIClient, tokens TokenSource) *Service {
	return &Service{client: client, tokens: tokens}
}

// GetProfile получает профиль аккаунта
func (s *Service) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	resp, err := s.client.GetProfile(ctx, accountID)
	if err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &models.Profile{
		UpdatedAt: resp.UpdatedAt,
		Username:  resp.Username,
		AccountID: resp.AccountID,
	}, nil
}

// InsertProfile записывает username в профиль аккаунта
func (s *Service) InsertProfile(ctx context.Context, accountID, username string) error {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	_, err = s.client.ClaimUsername(ctx, token, pkgapi.ClaimUsernameRequest{
		AccountID: accountID,
		Username:  username,
	})
	if err == nil {
		return nil
	}

	switch {
	case api.IsCode(err, pkgapi.CodeUsernameTaken):
		return ErrUsernameTaken
	case api.IsCode(err, pkgapi.CodeUsernameAlreadySet):
		return ErrUsernameAlreadySet
	case api.IsStatus(err, http.StatusForbidden):
		return ErrForbidden
	case api.IsStatus(err, http.StatusNotFound):
		return ErrProfileNotFound
	default:
		return err
	}
}
