package storage

import "errors"

// Common storage errors
var (
	// ErrAccountNotFound indicates that account was not found in storage
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailTaken indicates that an account with this email already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrProfileNotFound indicates that no profile row exists for the account
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUsernameTaken indicates a violation of the unique username constraint
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUsernameAlreadySet indicates that the profile already has a username
	ErrUsernameAlreadySet = errors.New("username already set")

	// ErrTokenNotFound indicates that refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrPostNotFound indicates that post was not found
	ErrPostNotFound = errors.New("post not found")
)
