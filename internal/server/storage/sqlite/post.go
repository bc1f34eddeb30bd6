package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/supaship/internal/models"
	"github.com/iudanet/supaship/internal/server/storage"
)

// CreatePost stores a new post
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, account_id, title, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.AccountID,
		post.Title,
		post.Content,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetPost retrieves a post with its author username
func (s *Storage) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	query := `
		SELECT p.id, p.account_id, COALESCE(pr.username, ''), p.title, p.content, p.created_at
		FROM posts p
		LEFT JOIN user_profiles pr ON pr.account_id = p.account_id
		WHERE p.id = ?
	`

	post := &models.Post{}
	err := s.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID,
		&post.AccountID,
		&post.AuthorUsername,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// ListPosts returns a page of posts, newest first, and the total count
func (s *Storage) ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `
		SELECT p.id, p.account_id, COALESCE(pr.username, ''), p.title, p.content, p.created_at
		FROM posts p
		LEFT JOIN user_profiles pr ON pr.account_id = p.account_id
		ORDER BY p.created_at DESC, p.rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	posts := make([]*models.Post, 0, limit)
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(
			&post.ID,
			&post.AccountID,
			&post.AuthorUsername,
			&post.Title,
			&post.Content,
			&post.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, total, nil
}
