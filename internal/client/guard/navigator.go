package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/supaship/internal/client/session"
)

const maxRedirects = 2

// ErrRedirectLoop возвращается, если guard перенаправил больше maxRedirects раз подряд
var ErrRedirectLoop = errors.New("too many redirects")

// ViewSource предоставляет ViewModel. Реализуется *session.State.
type ViewSource interface {
	Current() session.ViewModel
	Subscribe() (<-chan session.ViewModel, func())
	WaitResolved(ctx context.Context) (session.ViewModel, error)
}

// LocationStore сохраняет текущее положение между запусками клиента
type LocationStore interface {
	SaveLocation(ctx context.Context, path string) error
}

// Option настраивает Navigator
type Option func(*Navigator)

// WithLocationStore включает сохранение положения
func WithLocationStore(store LocationStore) Option {
	return func(n *Navigator) {
		n.store = store
	}
}

// Navigator applies the guard to every navigation and keeps the current location
type Navigator struct {
	state    ViewSource
	store    LocationStore
	logger   *slog.Logger
	location Route
	mu       sync.RWMutex
	hasLoc   bool
}

// NewNavigator создает навигатор поверх состояния клиента
func NewNavigator(state ViewSource, logger *slog.Logger, opts ...Option) *Navigator {
	n := &Navigator{
		state:  state,
		logger: logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Navigate waits until the state is resolved, applies the guard and follows
// redirects. The landing route becomes the current location.
func (n *Navigator) Navigate(ctx context.Context, path string) (Route, error) {
	route := ParseRoute(path)

	for hops := 0; ; hops++ {
		vm, err := n.state.WaitResolved(ctx)
		if err != nil {
			return Route{}, fmt.Errorf("failed to resolve client state: %w", err)
		}

		d := Evaluate(vm, route)
		if d.Wait {
			continue
		}
		if d.Redirect == "" {
			n.setLocation(ctx, route)
			return route, nil
		}
		if hops >= maxRedirects {
			return Route{}, fmt.Errorf("%w: stopped at %s", ErrRedirectLoop, route.Path)
		}

		n.logger.Debug("redirect",
			"from", route.Path,
			"to", d.Redirect,
			"state", Classify(vm).String(),
		)
		route = ParseRoute(d.Redirect)
	}
}

// Location returns the current location and whether one has been set
func (n *Navigator) Location() (Route, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.location, n.hasLoc
}

// Watch re-evaluates the current location on every ViewModel change and
// redirects when the guard no longer allows it. onRedirect may be nil.
func (n *Navigator) Watch(ctx context.Context, onRedirect func(from, to Route)) error {
	ch, cancel := n.state.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case vm, ok := <-ch:
			if !ok {
				return nil
			}

			from, ok := n.Location()
			if !ok {
				continue
			}

			d := Evaluate(vm, from)
			if d.Wait || d.Redirect == "" {
				continue
			}

			to, err := n.Navigate(ctx, d.Redirect)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				n.logger.Warn("reactive redirect failed", "from", from.Path, "error", err)
				continue
			}

			n.logger.Info("redirected", "from", from.Path, "to", to.Path)
			if onRedirect != nil {
				onRedirect(from, to)
			}
		}
	}
}

func (n *Navigator) setLocation(ctx context.Context, route Route) {
	n.mu.Lock()
	n.location = route
	n.hasLoc = true
	n.mu.Unlock()

	if n.store == nil {
		return
	}
	if err := n.store.SaveLocation(ctx, route.Path); err != nil {
		n.logger.Warn("failed to save location", "path", route.Path, "error", err)
	}
}
