package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"unicode/utf8"
)

// usernameCharset допускает только латинские буквы, цифры и нижнее подчеркивание.
var usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 4
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 15
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 6
)

// UsernameStatus is the outcome of checking a candidate username.
// Exactly one status applies to any input.
type UsernameStatus int

const (
	UsernameValid UsernameStatus = iota
	UsernameEmpty
	UsernameInvalidCharacters
	UsernameTooShort
	UsernameTooLong
)

// CheckUsername classifies a candidate username.
//
// Rules are checked in a fixed order: empty, character set, minimum
// length, maximum length. The first failing rule wins, so "a b" reports
// invalid characters even though it is also too short.
func CheckUsername(username string) UsernameStatus {
	if username == "" {
		return UsernameEmpty
	}

	if !usernameCharset.MatchString(username) {
		return UsernameInvalidCharacters
	}

	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen {
		return UsernameTooShort
	}
	if n > MaxUsernameLen {
		return UsernameTooLong
	}

	return UsernameValid
}

// Message returns the user-facing text for the status. Valid has no message.
func (s UsernameStatus) Message() string {
	switch s {
	case UsernameEmpty:
		return "Username is required"
	case UsernameInvalidCharacters:
		return "Username can only contain letters, numbers, and underscores"
	case UsernameTooShort:
		return fmt.Sprintf("Username must be at least %d characters long", MinUsernameLen)
	case UsernameTooLong:
		return fmt.Sprintf("Username must be at most %d characters long", MaxUsernameLen)
	default:
		return ""
	}
}

func (s UsernameStatus) String() string {
	switch s {
	case UsernameValid:
		return "valid"
	case UsernameEmpty:
		return "empty"
	case UsernameInvalidCharacters:
		return "contains-invalid-characters"
	case UsernameTooShort:
		return "too-short"
	case UsernameTooLong:
		return "too-long"
	default:
		return fmt.Sprintf("UsernameStatus(%d)", int(s))
	}
}

// ValidateUsername проверяет username и возвращает ошибку с сообщением для пользователя
func ValidateUsername(username string) error {
	if status := CheckUsername(username); status != UsernameValid {
		return fmt.Errorf("%s", status.Message())
	}
	return nil
}

// ValidateEmail проверяет, что email похож на адрес электронной почты
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}
