package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/supaship/internal/client/api"
	"github.com/iudanet/supaship/internal/client/guard"
)

const dateLayout = "2006-01-02 15:04"

// render печатает страницу, на которой оказался пользователь
func (c *Cli) render(ctx context.Context, route guard.Route) error {
	c.io.Printf("→ %s\n", route.Path)
	c.io.Println()

	switch route.Kind {
	case guard.RouteHome:
		c.io.Println("Supaship message board")
		if vm := c.state.Current(); vm.LoggedIn() {
			c.io.Println(greeting(vm))
		}
		c.io.Println("Run 'supaship open /1' to read the latest posts.")

	case guard.RouteWelcome:
		c.io.Println("Welcome aboard! Pick a username to finish registration.")
		c.io.Println("Run 'supaship welcome' to choose one.")

	case guard.RoutePage:
		return c.renderPage(ctx, route.Page)

	case guard.RoutePost:
		return c.renderPost(ctx, route.PostID)

	default:
		c.io.Println("404: page not found")
	}

	return nil
}

func (c *Cli) renderPage(ctx context.Context, page int) error {
	resp, err := c.posts.ListPosts(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}

	if len(resp.Posts) == 0 {
		c.io.Println("No posts yet.")
		return nil
	}

	for _, p := range resp.Posts {
		c.io.Printf("[%s] %s\n", p.ID, p.Title)
		c.io.Printf("    by %s, %s\n", author(p.AuthorUsername), p.CreatedAt.Local().Format(dateLayout))
	}

	c.io.Println()
	c.io.Printf("Page %d of %d (%d posts)\n", resp.Page, resp.TotalPages, resp.Total)
	if resp.Page < resp.TotalPages {
		c.io.Printf("Next: supaship open /%d\n", resp.Page+1)
	}

	return nil
}

func (c *Cli) renderPost(ctx context.Context, postID string) error {
	p, err := c.posts.GetPost(ctx, postID)
	if err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			c.io.Println("Post not found")
			return nil
		}
		return fmt.Errorf("failed to load post: %w", err)
	}

	c.io.Println(p.Title)
	c.io.Printf("by %s, %s\n", author(p.AuthorUsername), p.CreatedAt.Local().Format(dateLayout))
	c.io.Println()
	c.io.Println(p.Content)

	return nil
}

func author(username string) string {
	if username == "" {
		return "anonymous"
	}
	return username
}

