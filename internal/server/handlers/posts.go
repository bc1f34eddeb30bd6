package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
	"github.com/iudanet/supaship/internal/validation"
	"github.com/iudanet/supaship/pkg/api"
)

// DefaultPageSize используется, если размер страницы не задан
const DefaultPageSize = 10

// PostHandler обрабатывает запросы к доске сообщений
type PostHandler struct {
	logger   *slog.Logger
	posts    storage.PostStorage
	profiles storage.ProfileStorage
	pageSize int
}

// NewPostHandler создает новый handler постов
func NewPostHandler(logger *slog.Logger, posts storage.PostStorage, profiles storage.ProfileStorage, pageSize int) *PostHandler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PostHandler{
		logger:   logger,
		posts:    posts,
		profiles: profiles,
		pageSize: pageSize,
	}
}

// ListPosts обрабатывает GET /api/v1/posts?page=N (страницы с 1)
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			SendError(h.logger, w, "page must be a positive integer", api.CodeInvalidRequest, http.StatusBadRequest)
			return
		}
		// offset (page-1)*pageSize не должен переполнять int
		if n > h.maxPage() {
			SendError(h.logger, w, "page is out of range", api.CodeInvalidRequest, http.StatusBadRequest)
			return
		}
		page = n
	}

	posts, total, err := h.posts.ListPosts(ctx, (page-1)*h.pageSize, h.pageSize)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list posts", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	resp := api.PostsPageResponse{
		Posts:      make([]api.PostResponse, 0, len(posts)),
		Page:       page,
		PageSize:   h.pageSize,
		Total:      total,
		TotalPages: (total + h.pageSize - 1) / h.pageSize,
	}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, toPostResponse(p))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

func (h *PostHandler) maxPage() int {
	return (math.MaxInt-1)/h.pageSize + 1
}

// GetPost обрабатывает GET /api/v1/posts/{postID}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postID := r.PathValue("postID")
	if postID == "" {
		SendError(h.logger, w, "post id is required", api.CodeInvalidRequest, http.StatusBadRequest)
		return
	}
	// id постов всегда UUID, остальное заведомо не найдется
	if _, err := uuid.Parse(postID); err != nil {
		SendError(h.logger, w, "post not found", api.CodeNotFound, http.StatusNotFound)
		return
	}

	post, err := h.posts.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			SendError(h.logger, w, "post not found", api.CodeNotFound, http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get post", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	sendJSON(h.logger, w, toPostResponse(post), http.StatusOK)
}

// CreatePost обрабатывает POST /api/v1/posts
// Писать могут только аккаунты с заполненным username
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := GetAccountID(ctx)
	if !ok {
		SendError(h.logger, w, "authentication required", api.CodeUnauthorized, http.StatusUnauthorized)
		return
	}

	var req api.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(h.logger, w, "invalid request body", api.CodeInvalidRequest, http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.GetProfile(ctx, accountID)
	if err != nil && !errors.Is(err, storage.ErrProfileNotFound) {
		h.logger.ErrorContext(ctx, "failed to get profile", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}
	if profile == nil || !profile.HasUsername() {
		SendError(h.logger, w, "choose a username before posting", api.CodeUsernameRequired, http.StatusForbidden)
		return
	}

	if err := validation.ValidatePost(req.Title, req.Content); err != nil {
		SendError(h.logger, w, err.Error(), api.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	post := &models.Post{
		ID:             uuid.New().String(),
		AccountID:      accountID,
		AuthorUsername: *profile.Username,
		Title:          req.Title,
		Content:        req.Content,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.posts.CreatePost(ctx, post); err != nil {
		h.logger.ErrorContext(ctx, "failed to create post", slog.Any("error", err))
		sendInternalError(h.logger, w)
		return
	}

	h.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.String("account_id", accountID))

	sendJSON(h.logger, w, toPostResponse(post), http.StatusCreated)
}

func toPostResponse(p *models.Post) api.PostResponse {
	return api.PostResponse{
		ID:             p.ID,
		AccountID:      p.AccountID,
		AuthorUsername: p.AuthorUsername,
		Title:          p.Title,
		Content:        p.Content,
		CreatedAt:      p.CreatedAt,
	}
}
