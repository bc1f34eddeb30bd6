package guard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/supaship/internal/client/auth"
	"github.com/iudanet/supaship/internal/client/notify"
	"github.com/iudanet/supaship/internal/client/session"
	"github.com/iudanet/supaship/internal/models"
)

// profiles хранит username по accountID
type profiles struct {
	usernames map[string]string
	mu        sync.Mutex
}

func newProfiles() *profiles {
	return &profiles{usernames: make(map[string]string)}
}

func (p *profiles) setUsername(accountID, username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.usernames[accountID] = username
}

func (p *profiles) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prof := &models.Profile{AccountID: accountID}
	if name, ok := p.usernames[accountID]; ok {
		prof.Username = &name
	}
	return prof, nil
}

type locationRecorder struct {
	paths []string
	err   error
	mu    sync.Mutex
}

func (r *locationRecorder) SaveLocation(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func (r *locationRecorder) saved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

type harness struct {
	sessions *notify.Broadcaster[*auth.Session]
	profiles *profiles
	state    *session.State
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, initial *auth.Session) *harness {
	t.Helper()

	h := &harness{
		sessions: notify.New[*auth.Session](),
		profiles: newProfiles(),
	}
	h.sessions.Publish(initial)
	h.state = session.New(h.sessions, h.profiles, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.state.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return h
}

func navigate(t *testing.T, n *Navigator, path string) Route {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	route, err := n.Navigate(ctx, path)
	require.NoError(t, err)
	return route
}

func TestNavigator_LoggedOut(t *testing.T) {
	h := newHarness(t, nil)
	n := NewNavigator(h.state, discardLogger())

	_, ok := n.Location()
	assert.False(t, ok)

	assert.Equal(t, "/", navigate(t, n, "/welcome").Path)
	assert.Equal(t, "/3", navigate(t, n, "/3").Path)
	assert.Equal(t, RoutePost, navigate(t, n, "/post/abc").Kind)

	loc, ok := n.Location()
	require.True(t, ok)
	assert.Equal(t, "/post/abc", loc.Path)
}

func TestNavigator_NoUsername(t *testing.T) {
	h := newHarness(t, &auth.Session{AccountID: "acc-1"})
	n := NewNavigator(h.state, discardLogger())

	for _, path := range []string{"/", "/1", "/post/abc", "/unknown", "/welcome"} {
		assert.Equal(t, "/welcome", navigate(t, n, path).Path, path)
	}
}

func TestNavigator_WithUsername(t *testing.T) {
	h := newHarness(t, &auth.Session{AccountID: "acc-1"})
	h.profiles.setUsername("acc-1", "testuser")
	n := NewNavigator(h.state, discardLogger())

	// Повторный заход на /welcome всегда ведет на /
	assert.Equal(t, "/", navigate(t, n, "/welcome").Path)
	assert.Equal(t, "/", navigate(t, n, "/welcome").Path)
	assert.Equal(t, "/2", navigate(t, n, "/2").Path)
}

func TestNavigator_SavesLocation(t *testing.T) {
	h := newHarness(t, &auth.Session{AccountID: "acc-1"})
	store := &locationRecorder{}
	n := NewNavigator(h.state, discardLogger(), WithLocationStore(store))

	navigate(t, n, "/")
	assert.Equal(t, []string{"/welcome"}, store.saved())

	// Ошибка сохранения не мешает навигации
	store.err = errors.New("disk full")
	assert.Equal(t, "/welcome", navigate(t, n, "/5").Path)
}

func TestNavigator_ContextCanceled(t *testing.T) {
	// Run не запущен: состояние никогда не разрешится
	sessions := notify.New[*auth.Session]()
	state := session.New(sessions, newProfiles(), discardLogger())
	n := NewNavigator(state, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := n.Navigate(ctx, "/")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// flipView отдает чередующиеся состояния, чтобы guard бесконечно перенаправлял
type flipView struct {
	states []session.ViewModel
	i      int
	mu     sync.Mutex
}

func (f *flipView) Current() session.ViewModel { return f.states[0] }

func (f *flipView) Subscribe() (<-chan session.ViewModel, func()) {
	ch := make(chan session.ViewModel)
	return ch, func() {}
}

func (f *flipView) WaitResolved(ctx context.Context) (session.ViewModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vm := f.states[f.i%len(f.states)]
	f.i++
	return vm, nil
}

func TestNavigator_RedirectLoopBounded(t *testing.T) {
	name := "testuser"
	noName := session.ViewModel{Session: &auth.Session{AccountID: "a"}, Profile: &models.Profile{}, Resolved: true}
	withName := session.ViewModel{Session: &auth.Session{AccountID: "a"}, Profile: &models.Profile{Username: &name}, Resolved: true}

	view := &flipView{states: []session.ViewModel{withName, noName}}
	n := NewNavigator(view, discardLogger())

	_, err := n.Navigate(context.Background(), "/welcome")
	assert.ErrorIs(t, err, ErrRedirectLoop)

	_, ok := n.Location()
	assert.False(t, ok)
}

func TestNavigator_WatchLoggedOutLeavesWelcome(t *testing.T) {
	h := newHarness(t, &auth.Session{AccountID: "acc-1"})
	n := NewNavigator(h.state, discardLogger())

	require.Equal(t, "/welcome", navigate(t, n, "/").Path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redirected := make(chan Route, 1)
	watchDone := make(chan error, 1)
	go func() {
		watchDone <- n.Watch(ctx, func(from, to Route) {
			select {
			case redirected <- to:
			default:
			}
		})
	}()

	// Выход из аккаунта на /welcome: через 2 секунды пользователь на /
	h.sessions.Publish(nil)

	select {
	case to := <-redirected:
		assert.Equal(t, "/", to.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("not redirected within 2 seconds")
	}

	loc, _ := n.Location()
	assert.Equal(t, "/", loc.Path)

	cancel()
	assert.NoError(t, <-watchDone)
}

func TestNavigator_WatchAfterUsernameClaim(t *testing.T) {
	h := newHarness(t, &auth.Session{AccountID: "acc-1"})
	n := NewNavigator(h.state, discardLogger())

	require.Equal(t, "/welcome", navigate(t, n, "/welcome").Path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redirected := make(chan Route, 1)
	go func() {
		_ = n.Watch(ctx, func(from, to Route) {
			assert.Equal(t, "/welcome", from.Path)
			redirected <- to
		})
	}()

	h.profiles.setUsername("acc-1", "testuser")
	h.state.Refresh()

	select {
	case to := <-redirected:
		assert.Equal(t, "/", to.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("not redirected after claim")
	}
}

func TestNavigator_WatchWithoutLocation(t *testing.T) {
	h := newHarness(t, nil)
	n := NewNavigator(h.state, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	called := false
	require.NoError(t, n.Watch(ctx, func(from, to Route) { called = true }))
	assert.False(t, called)
}
