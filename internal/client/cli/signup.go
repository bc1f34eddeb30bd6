package cli

import (
	"context"
	"flag"
	"fmt"
)

func (c *Cli) runSignUp(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(c.io)
	skipUsername := fs.Bool("skip-username", false, "create the account without choosing a username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.io.Println("=== Sign up ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password (min 6 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	session, err := c.authService.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("✓ Account created: %s\n", session.Email)

	if _, err := c.awaitAccount(ctx, session.AccountID); err != nil {
		return err
	}

	// У нового аккаунта нет username, guard отправит на /welcome
	route, err := c.navigate(ctx, "/")
	if err != nil {
		return err
	}

	if *skipUsername {
		c.io.Println("Username registration skipped.")
		return c.render(ctx, route)
	}

	return c.runWelcome(ctx)
}
