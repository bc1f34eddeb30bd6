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

	"github.com/iudanet/supaship/internal/server/storage"
)

const (
	claimUsernameQuery = `(?s)^UPDATE\s+user_profiles\s+SET\s+username\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+account_id\s*=\s*\$3\s+AND\s+username\s+IS\s+NULL\s*$`
	selectProfileQuery = `(?s)^SELECT\s+account_id,\s*username,\s*updated_at\s+FROM\s+user_profiles\s+WHERE\s+account_id\s*=\s*\$1\s*$`
)

func TestGetProfile(t *testing.T) {
	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("without username", func(t *testing.T) {
		s, mock, _ := newStorageWithMock(t)
		rows := sqlmock.NewRows([]string{"account_id", "username", "updated_at"}).AddRow("acc-1", nil, updated)
		mock.ExpectQuery(selectProfileQuery).WithArgs("acc-1").WillReturnRows(rows)

		profile, err := s.GetProfile(context.Background(), "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "acc-1", profile.AccountID)
		assert.Nil(t, profile.Username)
	})

	t.Run("with username", func(t *testing.T) {
		s, mock, _ := newStorageWithMock(t)
		rows := sqlmock.NewRows([]string{"account_id", "username", "updated_at"}).AddRow("acc-1", "testuser", updated)
		mock.ExpectQuery(selectProfileQuery).WithArgs("acc-1").WillReturnRows(rows)

		profile, err := s.GetProfile(context.Background(), "acc-1")
		require.NoError(t, err)
		require.NotNil(t, profile.Username)
		assert.Equal(t, "testuser", *profile.Username)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock, _ := newStorageWithMock(t)
		mock.ExpectQuery(selectProfileQuery).WithArgs("acc-1").WillReturnError(sql.ErrNoRows)

		_, err := s.GetProfile(context.Background(), "acc-1")
		assert.ErrorIs(t, err, storage.ErrProfileNotFound)
	})
}

func TestClaimUsername(t *testing.T) {
	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
		name    string
	}{
		{
			name: "claimed",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(claimUsernameQuery).
					WithArgs("testuser", sqlmock.AnyArg(), "acc-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "taken by another profile",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(claimUsernameQuery).
					WithArgs("testuser", sqlmock.AnyArg(), "acc-1").
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraintProfileUsername})
			},
			wantErr: storage.ErrUsernameTaken,
		},
		{
			name: "already set",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(claimUsernameQuery).
					WithArgs("testuser", sqlmock.AnyArg(), "acc-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectProfileQuery).WithArgs("acc-1").
					WillReturnRows(sqlmock.NewRows([]string{"account_id", "username", "updated_at"}).AddRow("acc-1", "olduser", updated))
			},
			wantErr: storage.ErrUsernameAlreadySet,
		},
		{
			name: "no profile",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(claimUsernameQuery).
					WithArgs("testuser", sqlmock.AnyArg(), "acc-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectProfileQuery).WithArgs("acc-1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: storage.ErrProfileNotFound,
		},
		{
			name: "db error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(claimUsernameQuery).
					WithArgs("testuser", sqlmock.AnyArg(), "acc-1").
					WillReturnError(errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock, _ := newStorageWithMock(t)
			tt.setup(mock)

			err := s.ClaimUsername(context.Background(), "acc-1", "testuser")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.name == "db error":
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to claim username")
			default:
				require.NoError(t, err)
			}
		})
	}
}
