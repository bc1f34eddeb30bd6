package handlers

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:          []byte("test-secret"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

// mockStorage is an in-memory implementation of the storage interfaces
type mockStorage struct {
	accounts map[string]*models.Account      // id -> Account
	profiles map[string]*models.Profile      // account id -> Profile
	tokens   map[string]*models.RefreshToken // token -> RefreshToken
	posts    []*models.Post

	createError      error
	getAccountError  error
	getProfileError  error
	claimError       error
	saveTokenError   error
	deleteTokenError error
	postsError       error
	pingError        error

	mu sync.Mutex
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		accounts: make(map[string]*models.Account),
		profiles: make(map[string]*models.Profile),
		tokens:   make(map[string]*models.RefreshToken),
	}
}

func (m *mockStorage) CreateAccount(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return storage.ErrEmailTaken
		}
	}
	m.accounts[account.ID] = account
	m.profiles[account.ID] = &models.Profile{AccountID: account.ID, UpdatedAt: account.CreatedAt}
	return nil
}

func (m *mockStorage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getAccountError != nil {
		return nil, m.getAccountError
	}
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, storage.ErrAccountNotFound
}

func (m *mockStorage) GetAccountByID(ctx context.Context, accountID string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getAccountError != nil {
		return nil, m.getAccountError
	}
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	return a, nil
}

func (m *mockStorage) UpdateLastLogin(ctx context.Context, accountID string, lastLogin time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return storage.ErrAccountNotFound
	}
	a.LastLogin = &lastLogin
	return nil
}

func (m *mockStorage) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getProfileError != nil {
		return nil, m.getProfileError
	}
	p, ok := m.profiles[accountID]
	if !ok {
		return nil, storage.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockStorage) ClaimUsername(ctx context.Context, accountID, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimError != nil {
		return m.claimError
	}
	for _, p := range m.profiles {
		if p.Username != nil && *p.Username == username {
			return storage.ErrUsernameTaken
		}
	}
	p, ok := m.profiles[accountID]
	if !ok {
		return storage.ErrProfileNotFound
	}
	if p.HasUsername() {
		return storage.ErrUsernameAlreadySet
	}
	p.Username = &username
	return nil
}

func (m *mockStorage) CreatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postsError != nil {
		return m.postsError
	}
	m.posts = append(m.posts, post)
	return nil
}

func (m *mockStorage) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postsError != nil {
		return nil, m.postsError
	}
	for _, p := range m.posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, storage.ErrPostNotFound
}

func (m *mockStorage) ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postsError != nil {
		return nil, 0, m.postsError
	}
	sorted := append([]*models.Post(nil), m.posts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if offset >= len(sorted) {
		return []*models.Post{}, len(sorted), nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], len(sorted), nil
}

func (m *mockStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveTokenError != nil {
		return m.saveTokenError
	}
	m.tokens[token.Token] = token
	return nil
}

func (m *mockStorage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[token]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return rt, nil
}

func (m *mockStorage) DeleteRefreshToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteTokenError != nil {
		return m.deleteTokenError
	}
	if _, ok := m.tokens[token]; !ok {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, token)
	return nil
}

func (m *mockStorage) DeleteAccountTokens(ctx context.Context, accountID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteTokenError != nil {
		return 0, m.deleteTokenError
	}
	count := 0
	for token, rt := range m.tokens {
		if rt.AccountID == accountID {
			delete(m.tokens, token)
			count++
		}
	}
	return count, nil
}

func (m *mockStorage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockStorage) Ping(ctx context.Context) error {
	return m.pingError
}

func (m *mockStorage) Close() error {
	return nil
}

var _ storage.Storage = (*mockStorage)(nil)

// addAccount registers an account with an optional username directly in the mock
func (m *mockStorage) addAccount(id, email string, username *string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id] = &models.Account{ID: id, Email: email, CreatedAt: time.Now()}
	m.profiles[id] = &models.Profile{AccountID: id, Username: username, UpdatedAt: time.Now()}
}

func strPtr(s string) *string {
	return &s
}
