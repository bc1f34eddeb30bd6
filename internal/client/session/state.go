// Package session объединяет текущую сессию и профиль аккаунта
// в единое состояние клиента.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/iudanet/supaship/internal/client/auth"
	"github.com/iudanet/supaship/internal/client/notify"
	"github.com/iudanet/supaship/internal/client/profile"
	"github.com/iudanet/supaship/internal/models"
)

// ErrProviderClosed возвращается из Run, если источник сессий закрыл канал
var ErrProviderClosed = errors.New("session provider closed")

// ViewModel is the merged client state. Resolved is false while the
// profile for the current session is still being fetched.
type ViewModel struct {
	Session  *auth.Session
	Profile  *models.Profile
	Resolved bool
}

// LoggedIn reports whether a session is present
func (vm ViewModel) LoggedIn() bool {
	return vm.Session != nil
}

// HasUsername reports whether the signed-in account completed registration
func (vm ViewModel) HasUsername() bool {
	return vm.Session != nil && vm.Profile.HasUsername()
}

// Username возвращает username или "" если он не выбран
func (vm ViewModel) Username() string {
	if !vm.HasUsername() {
		return ""
	}
	return *vm.Profile.Username
}

// Provider публикует изменения сессии, начиная с текущего значения
type Provider interface {
	Subscribe() (<-chan *auth.Session, func())
}

// ProfileFetcher загружает профиль аккаунта
type ProfileFetcher interface {
	GetProfile(ctx context.Context, accountID string) (*models.Profile, error)
}

type fetchResult struct {
	err       error
	profile   *models.Profile
	accountID string
	gen       uint64
}

// State merges session changes with profile fetches.
//
// Run is the only writer of the ViewModel. Every fetch is tagged with a
// generation number; a result whose generation is not the latest one is
// discarded, so a slow response for an old session never overwrites a
// newer state.
type State struct {
	provider Provider
	profiles ProfileFetcher
	logger   *slog.Logger
	out      *notify.Broadcaster[ViewModel]
	refresh  chan struct{}
	current  ViewModel
	mu       sync.RWMutex
}

// New создает состояние клиента. До первого слияния ViewModel не разрешен.
func New(provider Provider, profiles ProfileFetcher, logger *slog.Logger) *State {
	s := &State{
		provider: provider,
		profiles: profiles,
		logger:   logger,
		out:      notify.New[ViewModel](),
		refresh:  make(chan struct{}, 1),
	}
	s.out.Publish(s.current)
	return s
}

// Current возвращает последний ViewModel
func (s *State) Current() ViewModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel of ViewModel changes starting with the current one
func (s *State) Subscribe() (<-chan ViewModel, func()) {
	return s.out.Subscribe()
}

// Refresh requests a profile re-fetch for the current session.
// It never blocks; requests made before the loop handles one are merged.
func (s *State) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// WaitResolved blocks until the ViewModel is resolved
func (s *State) WaitResolved(ctx context.Context) (ViewModel, error) {
	return s.WaitFor(ctx, func(vm ViewModel) bool { return vm.Resolved })
}

// WaitFor blocks until a ViewModel satisfying cond is published
func (s *State) WaitFor(ctx context.Context, cond func(ViewModel) bool) (ViewModel, error) {
	ch, cancel := s.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ViewModel{}, ctx.Err()
		case vm := <-ch:
			if cond(vm) {
				return vm, nil
			}
		}
	}
}

// Run merges session changes with profile fetches until ctx is done
func (s *State) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	sessions, unsubscribe := s.provider.Subscribe()
	defer unsubscribe()

	results := make(chan fetchResult)

	var (
		gen      uint64
		session  *auth.Session
		received bool
	)

	issue := func(refresh bool) {
		gen++

		if session == nil {
			s.set(ViewModel{Resolved: true})
			return
		}

		prev := s.Current()
		sameAccount := prev.Session != nil && prev.Session.AccountID == session.AccountID
		switch {
		case refresh && sameAccount:
			// Профиль остается прежним до прихода нового ответа
			s.set(ViewModel{Session: session, Profile: prev.Profile, Resolved: prev.Resolved})
		case prev.Resolved && prev.Session.SameSignIn(session):
			// Ротация токенов в рамках того же входа.
			// Новый вход, даже в тот же аккаунт, ждет свежий профиль.
			s.set(ViewModel{Session: session, Profile: prev.Profile, Resolved: true})
		default:
			s.set(ViewModel{Session: session})
		}

		g, accountID := gen, session.AccountID
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.profiles.GetProfile(ctx, accountID)
			select {
			case results <- fetchResult{gen: g, accountID: accountID, profile: p, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case next, ok := <-sessions:
			if !ok {
				return ErrProviderClosed
			}
			session, received = next, true
			issue(false)

		case <-s.refresh:
			// До первого значения от провайдера обновлять нечего
			if received {
				issue(true)
			}

		case r := <-results:
			if r.gen != gen {
				s.logger.Debug("discarding stale profile fetch", "account_id", r.accountID, "generation", r.gen)
				continue
			}

			p := r.profile
			if r.err != nil {
				if !errors.Is(r.err, profile.ErrProfileNotFound) {
					s.logger.Warn("failed to fetch profile", "account_id", r.accountID, "error", r.err)
				}
				p = nil
			}

			s.set(ViewModel{Session: session, Profile: p, Resolved: true})
		}
	}
}

func (s *State) set(vm ViewModel) {
	s.mu.Lock()
	s.current = vm
	s.mu.Unlock()

	s.out.Publish(vm)
}
