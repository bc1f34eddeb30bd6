package storage

import (
	"context"

	"github.com/iudanet/supaship/internal/models"
)

// TokenStorage defines interface for refresh token persistence
type TokenStorage interface {
	// SaveRefreshToken stores a new refresh token
	// If token with same token value exists, it will be replaced
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves refresh token by token value
	// Returns ErrTokenNotFound if token doesn't exist
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteRefreshToken deletes refresh token by token value
	// Returns ErrTokenNotFound if token doesn't exist
	DeleteRefreshToken(ctx context.Context, token string) error

	// DeleteAccountTokens deletes all refresh tokens for an account
	// Returns number of deleted tokens
	DeleteAccountTokens(ctx context.Context, accountID string) (int, error)

	// DeleteExpiredTokens removes all expired tokens
	// Returns number of deleted tokens
	DeleteExpiredTokens(ctx context.Context) (int, error)
}

// Storage aggregates everything the backend needs from a store
type Storage interface {
	AccountStorage
	ProfileStorage
	PostStorage
	TokenStorage

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
	Close() error
}
