package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/iudanet/supaship/internal/client/storage"
	pkgapi "github.com/iudanet/supaship/pkg/api"
)

// mockSessionStorage implements storage.SessionStorage for testing
type mockSessionStorage struct {
	data      *storage.SessionData
	getErr    error
	saveErr   error
	deleteErr error
	mu        sync.Mutex
}

func (m *mockSessionStorage) SaveSession(ctx context.Context, session *storage.SessionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *session
	m.data = &c
	return nil
}

func (m *mockSessionStorage) GetSession(ctx context.Context) (*storage.SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.data == nil {
		return nil, storage.ErrSessionNotFound
	}
	c := *m.data
	return &c, nil
}

func (m *mockSessionStorage) DeleteSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.data = nil
	return nil
}

func (m *mockSessionStorage) stored() *storage.SessionData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// mockAPIClient implements APIClient for testing
type mockAPIClient struct {
	signUpResp  *pkgapi.SessionResponse
	signInResp  *pkgapi.SessionResponse
	refreshResp *pkgapi.SessionResponse
	signUpErr   error
	signInErr   error
	refreshErr  error
	signOutErr  error

	signUpReq    pkgapi.SignUpRequest
	signInReq    pkgapi.SignInRequest
	refreshToken string
	signOutToken string
	signUpCalls  int
	refreshCalls int
	signOutCalls int
}

func (m *mockAPIClient) SignUp(ctx context.Context, req pkgapi.SignUpRequest) (*pkgapi.SessionResponse, error) {
	m.signUpCalls++
	m.signUpReq = req
	return m.signUpResp, m.signUpErr
}

func (m *mockAPIClient) SignIn(ctx context.Context, req pkgapi.SignInRequest) (*pkgapi.SessionResponse, error) {
	m.signInReq = req
	return m.signInResp, m.signInErr
}

func (m *mockAPIClient) Refresh(ctx context.Context, refreshToken string) (*pkgapi.SessionResponse, error) {
	m.refreshCalls++
	m.refreshToken = refreshToken
	return m.refreshResp, m.refreshErr
}

func (m *mockAPIClient) SignOut(ctx context.Context, accessToken string) error {
	m.signOutCalls++
	m.signOutToken = accessToken
	return m.signOutErr
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
