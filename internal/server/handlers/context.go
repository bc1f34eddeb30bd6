package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

const (
	// AccountIDKey ключ для хранения account_id в контексте
	AccountIDKey contextKey = "account_id"
	// EmailKey ключ для хранения email в контексте
	EmailKey contextKey = "email"
)

// WithAccount кладет данные аутентифицированного аккаунта в контекст
func WithAccount(ctx context.Context, accountID, email string) context.Context {
	ctx = context.WithValue(ctx, AccountIDKey, accountID)
	return context.WithValue(ctx, EmailKey, email)
}

// GetAccountID извлекает account_id из контекста запроса
func GetAccountID(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(string)
	return accountID, ok && accountID != ""
}

// GetEmail извлекает email из контекста запроса
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}
