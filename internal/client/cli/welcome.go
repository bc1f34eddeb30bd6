package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/supaship/internal/client/guard"
	"github.com/iudanet/supaship/internal/client/registration"
	"github.com/iudanet/supaship/internal/client/session"
	"github.com/iudanet/supaship/internal/validation"
)

func (c *Cli) runWelcome(ctx context.Context) error {
	route, err := c.navigate(ctx, guard.PathWelcome)
	if err != nil {
		return err
	}

	// Guard не пустил на /welcome: выходить или username уже выбран
	if route.Kind != guard.RouteWelcome {
		return c.render(ctx, route)
	}

	c.io.Println("=== Choose a username ===")
	c.io.Printf("%d-%d characters: letters, numbers, and underscores.\n",
		validation.MinUsernameLen, validation.MaxUsernameLen)
	c.io.Println()

	form := registration.New(c.state, c.profiles, c.logger)

	for {
		value, err := c.io.ReadInput("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}

		if status := form.Input(value); status != validation.UsernameValid {
			c.io.Println(status.Message())
			continue
		}

		err = form.Submit(ctx)
		var feedback *registration.FeedbackError
		if errors.As(err, &feedback) {
			c.io.Println(feedback.Error())
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	vm, err := c.awaitState(ctx, func(vm session.ViewModel) bool { return vm.HasUsername() })
	if err != nil {
		return err
	}

	c.io.Printf("✓ Username %s saved\n", vm.Username())
	c.io.Println(greeting(vm))

	// С username /welcome больше недоступен, guard отправит на /
	route, err = c.navigate(ctx, guard.PathWelcome)
	if err != nil {
		return err
	}

	return c.render(ctx, route)
}

func (c *Cli) runCheckUsername(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: check-username <value>")
	}

	status := validation.CheckUsername(args[0])
	if status == validation.UsernameValid {
		c.io.Printf("✓ %q is a valid username\n", args[0])
		return nil
	}

	c.io.Printf("✗ %s\n", status.Message())
	return nil
}
