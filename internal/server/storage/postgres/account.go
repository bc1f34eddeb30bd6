package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/supaship/internal/dbx"
	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
)

// CreateAccount creates a new account and its empty profile in one transaction
func (s *Storage) CreateAccount(ctx context.Context, account *models.Account) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, email, password_hash, created_at, last_login)
			 VALUES ($1, $2, $3, $4, $5)`,
			account.ID, account.Email, account.PasswordHash, account.CreatedAt, account.LastLogin,
		)
		if err != nil {
			if isUniqueViolation(err, constraintAccountEmail) {
				return storage.ErrEmailTaken
			}
			return fmt.Errorf("failed to insert account: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_profiles (account_id, username, updated_at)
			 VALUES ($1, NULL, $2)`,
			account.ID, account.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}

		return nil
	})
}

// GetAccountByEmail retrieves account by email
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, last_login
		 FROM accounts
		 WHERE email = $1`,
		email,
	))
}

// GetAccountByID retrieves account by ID
func (s *Storage) GetAccountByID(ctx context.Context, accountID string) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, last_login
		 FROM accounts
		 WHERE id = $1`,
		accountID,
	))
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var lastLogin sql.NullTime

	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if lastLogin.Valid {
		account.LastLogin = &lastLogin.Time
	}

	return account, nil
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, accountID string, lastLogin time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET last_login = $1 WHERE id = $2`,
		lastLogin, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrAccountNotFound
	}

	return nil
}
