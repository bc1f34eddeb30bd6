package cli

import (
	"context"
	"time"

	"github.com/iudanet/supaship/internal/client/session"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	vm, err := c.awaitState(ctx, func(vm session.ViewModel) bool { return vm.Resolved })
	if err != nil {
		return err
	}

	if !vm.LoggedIn() {
		c.io.Println("Status: Not signed in")
		c.io.Println()
		c.io.Println("Run 'supaship login' or 'supaship signup' to start.")
		return nil
	}

	c.io.Println("Status: Signed in")
	c.io.Println(greeting(vm))
	c.io.Printf("Email: %s\n", vm.Session.Email)

	if vm.HasUsername() {
		c.io.Printf("Username: %s\n", vm.Username())
	} else {
		c.io.Println("Username: not chosen yet")
		c.io.Println("Run 'supaship welcome' to choose one.")
	}

	remaining := time.Until(vm.Session.ExpiresAt)
	c.io.Printf("Token expires: %s\n", vm.Session.ExpiresAt.Format(time.RFC3339))
	if remaining <= 0 {
		c.io.Println("Access token has expired, it will be refreshed on the next request.")
	}

	c.io.Printf("Location: %s\n", c.lastPath(ctx))

	return nil
}
