package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/iudanet/supaship/internal/client/auth"
	"github.com/iudanet/supaship/internal/client/guard"
	"github.com/iudanet/supaship/internal/client/iocli"
	"github.com/iudanet/supaship/internal/client/profile"
	"github.com/iudanet/supaship/internal/client/session"
	"github.com/iudanet/supaship/internal/client/storage"
	"github.com/iudanet/supaship/pkg/api"
)

// DefaultStateTimeout ограничивает ожидание синхронизации состояния с сервером
const DefaultStateTimeout = 10 * time.Second

// PostsClient описывает методы сервера для работы с постами
type PostsClient interface {
	ListPosts(ctx context.Context, page int) (*api.PostsPageResponse, error)
	GetPost(ctx context.Context, postID string) (*api.PostResponse, error)
	CreatePost(ctx context.Context, accessToken string, req api.CreatePostRequest) (*api.PostResponse, error)
}

type Cli struct {
	io           iocli.IO
	posts        PostsClient
	authService  *auth.Service
	profiles     *profile.Service
	state        *session.State
	nav          *guard.Navigator
	meta         storage.MetadataStorage
	logger       *slog.Logger
	stateTimeout time.Duration
}

func New(
	cliIO iocli.IO,
	posts PostsClient,
	authService *auth.Service,
	profiles *profile.Service,
	state *session.State,
	nav *guard.Navigator,
	meta storage.MetadataStorage,
	logger *slog.Logger,
) *Cli {
	return &Cli{
		io:           cliIO,
		posts:        posts,
		authService:  authService,
		profiles:     profiles,
		state:        state,
		nav:          nav,
		meta:         meta,
		logger:       logger,
		stateTimeout: DefaultStateTimeout,
	}
}

// navigate проводит переход через guard
func (c *Cli) navigate(ctx context.Context, path string) (guard.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, c.stateTimeout)
	defer cancel()

	route, err := c.nav.Navigate(ctx, path)
	if err != nil {
		return guard.Route{}, fmt.Errorf("navigation to %s failed: %w", path, err)
	}
	return route, nil
}

// awaitState ждет, пока состояние клиента не удовлетворит cond
func (c *Cli) awaitState(ctx context.Context, cond func(session.ViewModel) bool) (session.ViewModel, error) {
	ctx, cancel := context.WithTimeout(ctx, c.stateTimeout)
	defer cancel()

	vm, err := c.state.WaitFor(ctx, cond)
	if err != nil {
		return session.ViewModel{}, fmt.Errorf("failed to sync client state: %w", err)
	}
	return vm, nil
}

// awaitAccount ждет, пока состояние не отразит сессию accountID
func (c *Cli) awaitAccount(ctx context.Context, accountID string) (session.ViewModel, error) {
	return c.awaitState(ctx, func(vm session.ViewModel) bool {
		return vm.Resolved && vm.Session != nil && vm.Session.AccountID == accountID
	})
}

// lastPath возвращает сохраненное положение или "/" если его нет
func (c *Cli) lastPath(ctx context.Context) string {
	if loc, ok := c.nav.Location(); ok {
		return loc.Path
	}

	path, err := c.meta.GetLocation(ctx)
	if err != nil {
		c.logger.Warn("failed to read last location", "error", err)
		return guard.PathHome
	}
	if path == "" {
		return guard.PathHome
	}
	return path
}

// greeting возвращает приветствие для вошедшего пользователя
func greeting(vm session.ViewModel) string {
	name := vm.Username()
	if name == "" {
		name = "dawg"
	}
	return fmt.Sprintf("Welcome %s.", name)
}

func PrintUsage(w io.Writer) {
	p := func(s string) { _, _ = fmt.Fprintln(w, s) }

	p("Supaship Client")
	p("")
	p("Usage:")
	p("  supaship [OPTIONS] COMMAND")
	p("")
	p("Options:")
	p("  --version          Show version information")
	p("  --server URL       Server URL (default: http://localhost:8080)")
	p("  --db PATH          Path to local database (default: supaship-client.db)")
	p("")
	p("Commands:")
	p("  signup [--skip-username]  Create an account and choose a username")
	p("  login                     Sign in with email and password")
	p("  logout                    Sign out")
	p("  status                    Show session status")
	p("  welcome                   Choose a username for the signed-in account")
	p("  check-username <value>    Check a username against the rules")
	p("  open [path]               Open a page (/, /welcome, /<n>, /post/<id>; default /1)")
	p("  post <title>              Create a post, content is read from stdin")
	p("")
	p("Examples:")
	p("  supaship signup")
	p("  supaship open /2")
	p("  echo 'Hello everyone' | supaship post 'First post'")
	p("  supaship --server https://example.com login")
}
