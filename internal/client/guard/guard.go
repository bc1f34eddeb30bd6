// Package guard решает, куда попадает пользователь при каждой навигации.
package guard

import (
	"fmt"

	"github.com/iudanet/supaship/internal/client/session"
)

// AuthState is the routing-relevant classification of a ViewModel
type AuthState int

const (
	LoggedOut AuthState = iota
	LoggedInNoUsername
	LoggedInWithUsername
)

func (s AuthState) String() string {
	switch s {
	case LoggedOut:
		return "logged-out"
	case LoggedInNoUsername:
		return "logged-in-no-username"
	case LoggedInWithUsername:
		return "logged-in-with-username"
	default:
		return fmt.Sprintf("AuthState(%d)", int(s))
	}
}

// Classify returns the auth state of vm
func Classify(vm session.ViewModel) AuthState {
	switch {
	case !vm.LoggedIn():
		return LoggedOut
	case vm.HasUsername():
		return LoggedInWithUsername
	default:
		return LoggedInNoUsername
	}
}

// Decision is the result of evaluating a navigation.
// Wait means the state is not resolved yet; Redirect is empty when the
// route is allowed.
type Decision struct {
	Redirect string
	Wait     bool
}

// Allowed reports whether the route can be shown as is
func (d Decision) Allowed() bool {
	return !d.Wait && d.Redirect == ""
}

// Evaluate applies the routing rules to route under vm:
//   - logged out: /welcome goes to /
//   - logged in without username: everything except /welcome goes to /welcome
//   - logged in with username: /welcome goes to /
//
// Every state has exactly one allowed destination for a redirect, and the
// destination is itself allowed, so a redirect never leads to another one.
func Evaluate(vm session.ViewModel, route Route) Decision {
	if !vm.Resolved {
		return Decision{Wait: true}
	}

	switch Classify(vm) {
	case LoggedInNoUsername:
		if route.Kind != RouteWelcome {
			return Decision{Redirect: PathWelcome}
		}
	default:
		if route.Kind == RouteWelcome {
			return Decision{Redirect: PathHome}
		}
	}

	return Decision{}
}
