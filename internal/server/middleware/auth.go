package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/supaship/internal/server/handlers"
	"github.com/iudanet/supaship/pkg/api"
)

// AuthMiddleware создает middleware для проверки JWT access token.
// В контекст кладутся account_id и email владельца токена.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := handlers.BearerToken(r)
			if err != nil {
				logger.Warn("Missing or malformed Authorization header", "path", r.URL.Path)
				handlers.SendError(logger, w, "missing bearer token", api.CodeUnauthorized, http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, tokenString)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				handlers.SendError(logger, w, "invalid or expired access token", api.CodeUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := handlers.WithAccount(r.Context(), claims.AccountID, claims.Email)

			logger.Debug("Account authenticated", "account_id", claims.AccountID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
