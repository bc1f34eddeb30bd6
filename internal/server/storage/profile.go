package storage

import (
	"context"

	"github.com/iudanet/supaship/internal/models"
)

// ProfileStorage defines interface for profile persistence.
// Usernames are unique across all profiles.
type ProfileStorage interface {
	// GetProfile retrieves the profile of an account
	// Returns ErrProfileNotFound if no profile row exists
	GetProfile(ctx context.Context, accountID string) (*models.Profile, error)

	// ClaimUsername sets the username of a profile that has none yet.
	// Returns ErrUsernameTaken if another profile holds the username,
	// ErrUsernameAlreadySet if this profile already has one and
	// ErrProfileNotFound if the account has no profile
	ClaimUsername(ctx context.Context, accountID, username string) error
}
