package storage

import (
	"context"
	"time"

	"github.com/iudanet/supaship/internal/models"
)

// AccountStorage defines interface for account persistence
type AccountStorage interface {
	// CreateAccount creates a new account together with its profile row.
	// The profile starts with a NULL username.
	// Returns ErrEmailTaken if email already exists
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByEmail retrieves account by email
	// Returns ErrAccountNotFound if account doesn't exist
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetAccountByID retrieves account by ID
	// Returns ErrAccountNotFound if account doesn't exist
	GetAccountByID(ctx context.Context, accountID string) (*models.Account, error)

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, accountID string, lastLogin time.Time) error
}
