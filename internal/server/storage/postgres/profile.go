package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
)

// GetProfile retrieves the profile of an account
func (s *Storage) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	profile := &models.Profile{}
	var username sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT account_id, username, updated_at
		 FROM user_profiles
		 WHERE account_id = $1`,
		accountID,
	).Scan(&profile.AccountID, &username, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if username.Valid {
		profile.Username = &username.String
	}

	return profile, nil
}

// ClaimUsername sets the username of a profile that has none yet
func (s *Storage) ClaimUsername(ctx context.Context, accountID, username string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE user_profiles
		 SET username = $1, updated_at = $2
		 WHERE account_id = $3 AND username IS NULL`,
		username, time.Now().UTC(), accountID,
	)
	if err != nil {
		if isUniqueViolation(err, constraintProfileUsername) {
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("failed to claim username: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		if _, err := s.GetProfile(ctx, accountID); err != nil {
			return err
		}
		return storage.ErrUsernameAlreadySet
	}

	return nil
}
