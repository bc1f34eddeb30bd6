package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
)

func TestAccountStorage_CreateAccount(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        "test@test.io",
		PasswordHash: "hash123",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateAccount(ctx, account))

	retrieved, err := s.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, retrieved.Email)
	assert.Equal(t, account.PasswordHash, retrieved.PasswordHash)
	assert.Nil(t, retrieved.LastLogin)

	// профиль создается вместе с аккаунтом
	profile, err := s.GetProfile(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, profile.AccountID)
	assert.Nil(t, profile.Username)
}

func TestAccountStorage_CreateAccount_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestAccount(t, ctx, s, "dup@test.io")

	second := &models.Account{
		ID:           uuid.New().String(),
		Email:        "dup@test.io",
		PasswordHash: "other",
		CreatedAt:    time.Now().UTC(),
	}
	err := s.CreateAccount(ctx, second)
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	// транзакция откатилась: профиля второго аккаунта нет
	_, err = s.GetProfile(ctx, second.ID)
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)
}

func TestAccountStorage_GetAccountByEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id := createTestAccount(t, ctx, s, "find@test.io")

	tests := []struct {
		wantErr error
		name    string
		email   string
		wantID  string
	}{
		{name: "existing", email: "find@test.io", wantID: id},
		{name: "missing", email: "nobody@test.io", wantErr: storage.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := s.GetAccountByEmail(ctx, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, account.ID)
		})
	}
}

func TestAccountStorage_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id := createTestAccount(t, ctx, s, "login@test.io")
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, s.UpdateLastLogin(ctx, id, now))

	account, err := s.GetAccountByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, account.LastLogin)
	assert.True(t, now.Equal(*account.LastLogin))

	err = s.UpdateLastLogin(ctx, "missing", now)
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}
