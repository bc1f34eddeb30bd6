// Package registration реализует выбор username новым аккаунтом.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/supaship/internal/client/profile"
	"github.com/iudanet/supaship/internal/client/session"
	"github.com/iudanet/supaship/internal/validation"
)

// ErrNotSignedIn возвращается из Submit без активной сессии
var ErrNotSignedIn = errors.New("not signed in")

// ValidationError is returned by Submit when the current value is not valid.
// Nothing is sent to the server in that case.
type ValidationError struct {
	Status validation.UsernameStatus
}

func (e *ValidationError) Error() string {
	return e.Status.Message()
}

// FeedbackError is returned by Submit when another account already owns
// the username. Its message is shown to the user as is.
type FeedbackError struct {
	Username string
}

func (e *FeedbackError) Error() string {
	return `Username "` + e.Username + `" is already taken`
}

// ProfileWriter записывает username в профиль
type ProfileWriter interface {
	InsertProfile(ctx context.Context, accountID, username string) error
}

// StateSource предоставляет текущую сессию и перезапрос профиля.
// Реализуется *session.State.
type StateSource interface {
	Current() session.ViewModel
	Refresh()
}

// Workflow holds the username form: the value typed so far and its status
type Workflow struct {
	profiles ProfileWriter
	state    StateSource
	logger   *slog.Logger
	value    string
	status   validation.UsernameStatus
	mu       sync.Mutex
}

// New создает форму с пустым значением
func New(state StateSource, profiles ProfileWriter, logger *slog.Logger) *Workflow {
	return &Workflow{
		profiles: profiles,
		state:    state,
		logger:   logger,
		status:   validation.CheckUsername(""),
	}
}

// Input заменяет значение поля и возвращает его статус
func (w *Workflow) Input(value string) validation.UsernameStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.value = value
	w.status = validation.CheckUsername(value)
	return w.status
}

// Value возвращает текущее значение поля
func (w *Workflow) Value() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Status возвращает статус текущего значения
func (w *Workflow) Status() validation.UsernameStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// CanSubmit reports whether the current value is valid
func (w *Workflow) CanSubmit() bool {
	return w.Status() == validation.UsernameValid
}

// Submit writes the username for the signed-in account.
//
// On success the client state is asked to re-fetch the profile, which moves
// the account out of /welcome. A username owned by another account yields
// *FeedbackError and leaves the account where it is.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	value, status := w.value, w.status
	w.mu.Unlock()

	if status != validation.UsernameValid {
		return &ValidationError{Status: status}
	}

	vm := w.state.Current()
	if vm.Session == nil {
		return ErrNotSignedIn
	}
	accountID := vm.Session.AccountID

	err := w.profiles.InsertProfile(ctx, accountID, value)
	switch {
	case err == nil:
		w.logger.Info("username claimed", "account_id", accountID, "username", value)
		w.state.Refresh()
		return nil

	case errors.Is(err, profile.ErrUsernameTaken):
		w.logger.Debug("username taken", "account_id", accountID, "username", value)
		return &FeedbackError{Username: value}

	case errors.Is(err, profile.ErrUsernameAlreadySet):
		// Профиль уже заполнен в другой вкладке или на другом устройстве
		w.state.Refresh()
		return fmt.Errorf("failed to save username: %w", err)

	default:
		return fmt.Errorf("failed to save username: %w", err)
	}
}
