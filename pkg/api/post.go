package api

import "time"

// PostResponse представляет пост на доске
type PostResponse struct {
	CreatedAt      time.Time `json:"created_at"`
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
}

// PostsPageResponse представляет одну страницу списка постов
type PostsPageResponse struct {
	Posts      []PostResponse `json:"posts"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// CreatePostRequest представляет запрос на создание поста
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
