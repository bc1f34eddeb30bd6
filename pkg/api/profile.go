package api

import "time"

// ProfileResponse представляет профиль аккаунта.
// Username равен nil, пока регистрация username не завершена.
type ProfileResponse struct {
	UpdatedAt time.Time `json:"updated_at"`
	Username  *string   `json:"username"`
	AccountID string    `json:"account_id"`
}

// ClaimUsernameRequest записывает username в профиль аккаунта
type ClaimUsernameRequest struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}
