package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
)

const (
	insertAccountQuery = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*email,\s*password_hash,\s*created_at,\s*last_login\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	insertProfileQuery = `(?s)^INSERT\s+INTO\s+user_profiles\s*\(account_id,\s*username,\s*updated_at\)\s*VALUES\s*\(\$1,\s*NULL,\s*\$2\)\s*$`
)

func testAccount() *models.Account {
	return &models.Account{
		ID:           "8c5f6a3e-4d1b-4a5e-9a6f-1b2c3d4e5f60",
		Email:        "test@test.io",
		PasswordHash: "hash",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAccount_Success(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)
	account := testAccount()

	mock.ExpectBegin()
	mock.ExpectExec(insertAccountQuery).
		WithArgs(account.ID, account.Email, account.PasswordHash, account.CreatedAt, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertProfileQuery).
		WithArgs(account.ID, account.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.CreateAccount(context.Background(), account))
}

func TestCreateAccount_EmailTaken(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)
	account := testAccount()

	mock.ExpectBegin()
	mock.ExpectExec(insertAccountQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraintAccountEmail})
	mock.ExpectRollback()

	err := s.CreateAccount(context.Background(), account)
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestCreateAccount_ProfileInsertFails(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)
	account := testAccount()

	mock.ExpectBegin()
	mock.ExpectExec(insertAccountQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertProfileQuery).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := s.CreateAccount(context.Background(), account)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert profile")
}

func TestGetAccountByEmail(t *testing.T) {
	account := testAccount()
	lastLogin := account.CreatedAt.Add(time.Hour)

	tests := []struct {
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
		name    string
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "last_login"}).
					AddRow(account.ID, account.Email, account.PasswordHash, account.CreatedAt, lastLogin)
				mock.ExpectQuery(`FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1`).WithArgs(account.Email).WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1`).WithArgs(account.Email).WillReturnError(sql.ErrNoRows)
			},
			wantErr: storage.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock, _ := newStorageWithMock(t)
			tt.setup(mock)

			got, err := s.GetAccountByEmail(context.Background(), account.Email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, account.ID, got.ID)
			require.NotNil(t, got.LastLogin)
			assert.True(t, lastLogin.Equal(*got.LastLogin))
		})
	}
}

func TestGetAccountByID_NullLastLogin(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)
	account := testAccount()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "last_login"}).
		AddRow(account.ID, account.Email, account.PasswordHash, account.CreatedAt, nil)
	mock.ExpectQuery(`FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).WithArgs(account.ID).WillReturnRows(rows)

	got, err := s.GetAccountByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, got.Email)
	assert.Nil(t, got.LastLogin)
}

func TestUpdateLastLogin(t *testing.T) {
	now := time.Now().UTC()

	t.Run("updated", func(t *testing.T) {
		s, mock, _ := newStorageWithMock(t)
		mock.ExpectExec(`UPDATE\s+accounts\s+SET\s+last_login`).WithArgs(now, "id-1").WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, s.UpdateLastLogin(context.Background(), "id-1", now))
	})

	t.Run("missing account", func(t *testing.T) {
		s, mock, _ := newStorageWithMock(t)
		mock.ExpectExec(`UPDATE\s+accounts\s+SET\s+last_login`).WithArgs(now, "id-2").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, s.UpdateLastLogin(context.Background(), "id-2", now), storage.ErrAccountNotFound)
	})
}
