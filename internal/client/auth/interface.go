package auth

import (
	"context"

	"github.com/iudanet/supaship/pkg/api"
)

// APIClient описывает методы сервера, нужные для управления сессией.
// Реализуется *api.Client.
type APIClient interface {
	SignUp(ctx context.Context, req api.SignUpRequest) (*api.SessionResponse, error)
	SignIn(ctx context.Context, req api.SignInRequest) (*api.SessionResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*api.SessionResponse, error)
	SignOut(ctx context.Context, accessToken string) error
}
