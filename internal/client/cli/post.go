package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/supaship/internal/client/api"
	"github.com/iudanet/supaship/internal/client/auth"
	"github.com/iudanet/supaship/internal/validation"
	pkgapi "github.com/iudanet/supaship/pkg/api"
)

func (c *Cli) runPost(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: post <title>")
	}
	title := strings.Join(args, " ")

	content, err := c.io.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if err := validation.ValidatePost(title, content); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotSignedIn) {
			return fmt.Errorf("not signed in. Please run 'supaship login' first")
		}
		return err
	}

	post, err := c.posts.CreatePost(ctx, token, pkgapi.CreatePostRequest{Title: title, Content: content})
	if err != nil {
		if api.IsCode(err, pkgapi.CodeUsernameRequired) {
			return fmt.Errorf("choose a username first: run 'supaship welcome'")
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	c.io.Printf("✓ Post created: /post/%s\n", post.ID)
	return nil
}
