package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
	"github.com/iudanet/supaship/internal/validation"
	"github.com/iudanet/supaship/pkg/api"
)

// AuthStorage объединяет хранилища, нужные для авторизации
type AuthStorage interface {
	storage.AccountStorage
	storage.TokenStorage
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger     *slog.Logger
	storage    AuthStorage
	jwtConfig  JWTConfig
	bcryptCost int
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, s AuthStorage, jwtConfig JWTConfig, bcryptCost int) *AuthHandler {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		logger:     logger,
		storage:    s,
		jwtConfig:  jwtConfig,
		bcryptCost: bcryptCost,
	}
}

// SignUp обрабатывает POST /api/v1/auth/signup
// Создает аккаунт (и пустой профиль) и сразу выдает сессию
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signup request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", api.CodeInvalidRequest, http.StatusBadRequest)
		return
	}

	email := normalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		SendError(h.logger, w, err.Error(), api.CodeValidationFailed, http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		SendError(h.logger, w, err.Error(), api.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.storage.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			h.logger.WarnContext(ctx, "email already registered")
			SendError(h.logger, w, "email already registered", api.CodeEmailTaken, http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create account", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	resp, err := h.issueSession(ctx, account)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	h.logger.InfoContext(ctx, "account created", slog.String("account_id", account.ID))

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// SignIn обрабатывает POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signin request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", api.CodeInvalidRequest, http.StatusBadRequest)
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		SendError(h.logger, w, "email and password are required", api.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	account, err := h.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			h.logger.WarnContext(ctx, "signin failed: account not found")
			SendError(h.logger, w, "invalid email or password", api.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get account", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "signin failed: wrong password", slog.String("account_id", account.ID))
		SendError(h.logger, w, "invalid email or password", api.CodeInvalidCredentials, http.StatusUnauthorized)
		return
	}

	resp, err := h.issueSession(ctx, account)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	if err := h.storage.UpdateLastLogin(ctx, account.ID, time.Now().UTC()); err != nil {
		// Не критичная ошибка, логируем но не прерываем
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "account signed in", slog.String("account_id", account.ID))

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Refresh обрабатывает POST /api/v1/auth/refresh
// Refresh token передается в Authorization: Bearer и ротируется
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshToken, err := BearerToken(r)
	if err != nil {
		SendError(h.logger, w, "refresh token is required", api.CodeUnauthorized, http.StatusUnauthorized)
		return
	}

	storedToken, err := h.storage.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			h.logger.WarnContext(ctx, "refresh token not found")
			SendError(h.logger, w, "invalid refresh token", api.CodeUnauthorized, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	if time.Now().After(storedToken.ExpiresAt) {
		h.logger.WarnContext(ctx, "refresh token expired", slog.String("account_id", storedToken.AccountID))
		_ = h.storage.DeleteRefreshToken(ctx, refreshToken)
		SendError(h.logger, w, "refresh token expired", api.CodeUnauthorized, http.StatusUnauthorized)
		return
	}

	account, err := h.storage.GetAccountByID(ctx, storedToken.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			SendError(h.logger, w, "invalid refresh token", api.CodeUnauthorized, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get account", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	// Старый токен удаляется до выдачи нового; гонка двух refresh
	// с одним токеном дает 401 второму запросу
	if err := h.storage.DeleteRefreshToken(ctx, refreshToken); err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			SendError(h.logger, w, "invalid refresh token", api.CodeUnauthorized, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete old refresh token", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	resp, err := h.issueSession(ctx, account)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	h.logger.InfoContext(ctx, "tokens refreshed", slog.String("account_id", account.ID))

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// SignOut обрабатывает POST /api/v1/auth/signout
// Требует AuthMiddleware; удаляет все refresh tokens аккаунта
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := GetAccountID(ctx)
	if !ok {
		SendError(h.logger, w, "authentication required", api.CodeUnauthorized, http.StatusUnauthorized)
		return
	}

	deleted, err := h.storage.DeleteAccountTokens(ctx, accountID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete account tokens", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	h.logger.InfoContext(ctx, "account signed out",
		slog.String("account_id", accountID),
		slog.Int("tokens_deleted", deleted))

	w.WriteHeader(http.StatusNoContent)
}

// issueSession выдает access и refresh токены и сохраняет refresh token
func (h *AuthHandler) issueSession(ctx context.Context, account *models.Account) (*api.SessionResponse, error) {
	accessToken, expiresIn, err := GenerateAccessToken(h.jwtConfig, account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := GenerateRefreshToken(h.jwtConfig)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		Token:     refreshToken,
		AccountID: account.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := h.storage.SaveRefreshToken(ctx, token); err != nil {
		return nil, err
	}

	return &api.SessionResponse{
		AccountID:    account.ID,
		Email:        account.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
