package api

// Машиночитаемые коды ошибок в ErrorResponse.Code
const (
	CodeInvalidRequest     = "invalid_request"
	CodeValidationFailed   = "validation_failed"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeEmailTaken         = "email_taken"
	CodeUsernameTaken      = "username_taken"
	CodeUsernameAlreadySet = "username_already_set"
	CodeUsernameRequired   = "username_required"
	CodeRateLimited        = "rate_limited"
	CodeInternal           = "internal"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // текст HTTP статуса
	Message string `json:"message,omitempty"` // сообщение для пользователя
	Code    string `json:"code,omitempty"`    // машиночитаемый код
}
