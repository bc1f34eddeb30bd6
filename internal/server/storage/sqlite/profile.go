package sqlite

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
	query := `
		SELECT account_id, username, updated_at
		FROM user_profiles
		WHERE account_id = ?
	`

	profile := &models.Profile{}
	var username sql.NullString

	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&profile.AccountID,
		&username,
		&profile.UpdatedAt,
	)
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
	query := `
		UPDATE user_profiles
		SET username = ?, updated_at = ?
		WHERE account_id = ? AND username IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, username, time.Now().UTC(), accountID)
	if err != nil {
		if isUniqueViolation(err, "user_profiles.username") {
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("failed to claim username: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		// Либо профиля нет, либо username уже задан
		if _, err := s.GetProfile(ctx, accountID); err != nil {
			return err
		}
		return storage.ErrUsernameAlreadySet
	}

	return nil
}
