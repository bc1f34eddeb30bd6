package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/supaship/internal/client/guard"
)

func (c *Cli) runLogin(ctx context.Context) error {
	// Запоминаем, откуда пришли, чтобы вернуться туда после входа
	if err := c.meta.SaveReturnPath(ctx, c.lastPath(ctx)); err != nil {
		c.logger.Warn("failed to save return path", "error", err)
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	session, err := c.authService.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	// Профиль всегда перечитывается после входа
	vm, err := c.awaitAccount(ctx, session.AccountID)
	if err != nil {
		return err
	}

	c.io.Println("✓ Login successful!")
	c.io.Println(greeting(vm))

	returnPath, err := c.meta.PopReturnPath(ctx)
	if err != nil {
		c.logger.Warn("failed to read return path", "error", err)
	}
	if returnPath == "" {
		returnPath = guard.PathHome
	}

	route, err := c.navigate(ctx, returnPath)
	if err != nil {
		return err
	}

	return c.render(ctx, route)
}
