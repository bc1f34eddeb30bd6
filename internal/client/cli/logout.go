package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/supaship/internal/client/session"
)

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	if err := c.authService.SignOut(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if _, err := c.awaitState(ctx, func(vm session.ViewModel) bool {
		return vm.Resolved && !vm.LoggedIn()
	}); err != nil {
		return err
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	// Текущая страница может быть недоступна после выхода
	route, err := c.navigate(ctx, c.lastPath(ctx))
	if err != nil {
		return err
	}
	c.io.Printf("→ %s\n", route.Path)

	return nil
}
