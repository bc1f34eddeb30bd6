package models

import "time"

// Account представляет учетную запись в системе
type Account struct {
	CreatedAt    time.Time  `json:"created_at"`    // время создания
	LastLogin    *time.Time `json:"last_login"`    // время последнего входа
	ID           string     `json:"id"`            // UUID учетной записи
	Email        string     `json:"email"`         // уникальный email
	PasswordHash string     `json:"password_hash"` // bcrypt хеш пароля
}

// Profile is the per-account row holding the claimed username.
// A nil Username means registration has not been completed.
type Profile struct {
	UpdatedAt time.Time `json:"updated_at"`
	Username  *string   `json:"username"`
	AccountID string    `json:"account_id"`
}

// HasUsername reports whether the profile has completed registration.
func (p *Profile) HasUsername() bool {
	return p != nil && p.Username != nil && *p.Username != ""
}

// RefreshToken представляет refresh token учетной записи
type RefreshToken struct {
	ExpiresAt time.Time `json:"expires_at"` // время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
	Token     string    `json:"token"`      // значение токена
	AccountID string    `json:"account_id"` // ID учетной записи
}

// Post представляет сообщение на доске
type Post struct {
	CreatedAt      time.Time `json:"created_at"`
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	AuthorUsername string    `json:"author_username"` // заполняется при чтении
	Title          string    `json:"title"`
	Content        string    `json:"content"`
}
