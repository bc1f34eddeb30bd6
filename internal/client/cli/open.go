package cli

import (
	"context"
	"fmt"
)

// defaultOpenPath первая страница доски
const defaultOpenPath = "/1"

func (c *Cli) runOpen(ctx context.Context, args []string) error {
	path := defaultOpenPath
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return fmt.Errorf("usage: open [path]")
	}

	route, err := c.navigate(ctx, path)
	if err != nil {
		return err
	}

	if route.Path != path {
		c.logger.Debug("redirected", "requested", path, "landed", route.Path)
	}

	return c.render(ctx, route)
}
