package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/supaship/pkg/api"
)

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsCode проверяет, что err является ответом сервера с указанным кодом
func IsCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsStatus проверяет, что err является ответом сервера с указанным HTTP статусом
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// SignUp создает аккаунт и возвращает новую сессию
func (c *Client) SignUp(ctx context.Context, req api.SignUpRequest) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/signup", "", req, &resp); err != nil {
		return nil, fmt.Errorf("signup request failed: %w", err)
	}
	return &resp, nil
}

// SignIn выполняет вход по email и паролю
func (c *Client) SignIn(ctx context.Context, req api.SignInRequest) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/signin", "", req, &resp); err != nil {
		return nil, fmt.Errorf("signin request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает refresh token на новую сессию
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", refreshToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// SignOut отзывает refresh токены аккаунта на сервере
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/signout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("signout request failed: %w", err)
	}
	return nil
}

// GetProfile получает профиль аккаунта
func (c *Client) GetProfile(ctx context.Context, accountID string) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	path := "/api/v1/profiles/" + url.PathEscape(accountID)
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("get profile request failed: %w", err)
	}
	return &resp, nil
}

// ClaimUsername записывает username в профиль аккаунта
func (c *Client) ClaimUsername(ctx context.Context, accessToken string, req api.ClaimUsernameRequest) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/profiles", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("claim username request failed: %w", err)
	}
	return &resp, nil
}

// ListPosts получает страницу постов (нумерация с 1)
func (c *Client) ListPosts(ctx context.Context, page int) (*api.PostsPageResponse, error) {
	var resp api.PostsPageResponse
	path := "/api/v1/posts?page=" + strconv.Itoa(page)
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list posts request failed: %w", err)
	}
	return &resp, nil
}

// GetPost получает пост по ID
func (c *Client) GetPost(ctx context.Context, postID string) (*api.PostResponse, error) {
	var resp api.PostResponse
	path := "/api/v1/posts/" + url.PathEscape(postID)
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("get post request failed: %w", err)
	}
	return &resp, nil
}

// CreatePost публикует новый пост
func (c *Client) CreatePost(ctx context.Context, accessToken string, req api.CreatePostRequest) (*api.PostResponse, error) {
	var resp api.PostResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/posts", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("create post request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос. Непустой token передается как Bearer.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
