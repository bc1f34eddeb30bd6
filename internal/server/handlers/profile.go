package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
	"github.com/iudanet/supaship/internal/validation"
	"github.com/iudanet/supaship/pkg/api"
)

// ProfileHandler обрабатывает запросы к профилям
type ProfileHandler struct {
	logger   *slog.Logger
	profiles storage.ProfileStorage
}

// NewProfileHandler создает новый handler профилей
func NewProfileHandler(logger *slog.Logger, profiles storage.ProfileStorage) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		profiles: profiles,
	}
}

// GetProfile обрабатывает GET /api/v1/profiles/{accountID}
// Профили публичные, чтение доступно без токена
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID := r.PathValue("accountID")
	if accountID == "" {
		SendError(h.logger, w, "account id is required", api.CodeInvalidRequest, http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(accountID); err != nil {
		SendError(h.logger, w, "profile not found", api.CodeNotFound, http.StatusNotFound)
		return
	}

	profile, err := h.profiles.GetProfile(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			SendError(h.logger, w, "profile not found", api.CodeNotFound, http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get profile", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	sendJSON(h.logger, w, toProfileResponse(profile), http.StatusOK)
}

// ClaimUsername обрабатывает POST /api/v1/profiles
// Аккаунт может записать username только в свой профиль и только один раз
func (h *ProfileHandler) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := GetAccountID(ctx)
	if !ok {
		SendError(h.logger, w, "authentication required", api.CodeUnauthorized, http.StatusUnauthorized)
		return
	}

	var req api.ClaimUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(h.logger, w, "invalid request body", api.CodeInvalidRequest, http.StatusBadRequest)
		return
	}

	// Row-level policy: account_id в теле должен совпадать с владельцем токена
	if req.AccountID != accountID {
		h.logger.WarnContext(ctx, "profile write for foreign account rejected",
			slog.String("account_id", accountID),
			slog.String("target_account_id", req.AccountID))
		SendError(h.logger, w, "cannot modify another account's profile", api.CodeForbidden, http.StatusForbidden)
		return
	}

	if status := validation.CheckUsername(req.Username); status != validation.UsernameValid {
		SendError(h.logger, w, status.Message(), api.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	err := h.profiles.ClaimUsername(ctx, accountID, req.Username)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrUsernameTaken):
		h.logger.InfoContext(ctx, "username already taken", slog.String("username", req.Username))
		SendError(h.logger, w, fmt.Sprintf("Username %q is already taken", req.Username), api.CodeUsernameTaken, http.StatusConflict)
		return
	case errors.Is(err, storage.ErrUsernameAlreadySet):
		SendError(h.logger, w, "username is already set for this account", api.CodeUsernameAlreadySet, http.StatusConflict)
		return
	case errors.Is(err, storage.ErrProfileNotFound):
		SendError(h.logger, w, "profile not found", api.CodeNotFound, http.StatusNotFound)
		return
	default:
		h.logger.ErrorContext(ctx, "failed to claim username", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	h.logger.InfoContext(ctx, "username claimed",
		slog.String("account_id", accountID),
		slog.String("username", req.Username))

	username := req.Username
	sendJSON(h.logger, w, api.ProfileResponse{
		AccountID: accountID,
		Username:  &username,
		UpdatedAt: time.Now().UTC(),
	}, http.StatusCreated)
}

func toProfileResponse(p *models.Profile) api.ProfileResponse {
	return api.ProfileResponse{
		AccountID: p.AccountID,
		Username:  p.Username,
		UpdatedAt: p.UpdatedAt,
	}
}
