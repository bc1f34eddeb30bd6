package storage

import (
	"context"

	"github.com/iudanet/supaship/internal/models"
)

// PostStorage defines interface for message board posts
type PostStorage interface {
	// CreatePost stores a new post
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost retrieves a post with its author username
	// Returns ErrPostNotFound if post doesn't exist
	GetPost(ctx context.Context, postID string) (*models.Post, error)

	// ListPosts returns posts newest first, skipping offset and returning at most limit
	// together with the total number of posts
	ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, int, error)
}
