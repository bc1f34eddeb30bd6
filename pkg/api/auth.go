package api

// SignUpRequest представляет запрос на создание аккаунта
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest представляет запрос на вход по email и паролю
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse представляет выданную сессию
type SessionResponse struct {
	AccountID    string `json:"account_id"`    // UUID аккаунта
	Email        string `json:"email"`         // email аккаунта
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
