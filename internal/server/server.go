// Package server собирает HTTP API доски сообщений: маршруты, middleware
// и жизненный цикл http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/supaship/internal/config"
	"github.com/iudanet/supaship/internal/server/handlers"
	"github.com/iudanet/supaship/internal/server/middleware"
	"github.com/iudanet/supaship/internal/server/storage"
)

const (
	shutdownTimeout      = 10 * time.Second
	tokenCleanupInterval = time.Hour
	readHeaderTimeout    = 5 * time.Second
)

// Server HTTP сервер доски сообщений
type Server struct {
	logger   *slog.Logger
	store    storage.Storage
	limiter  *middleware.RateLimiter
	httpSrv  *http.Server
	cleanupT time.Duration
}

// New создает сервер поверх store с параметрами из cfg
func New(cfg *config.Config, store storage.Storage, logger *slog.Logger, version string) *Server {
	s := &Server{
		logger:   logger,
		store:    store,
		limiter:  middleware.NewRateLimiter(cfg.RateLimit.Auth, cfg.RateLimit.Window, logger),
		cleanupT: tokenCleanupInterval,
	}

	s.httpSrv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.routes(cfg, version),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

// Handler возвращает корневой handler со всеми маршрутами
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Close останавливает фоновые задачи сервера, используемого только через Handler
func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) routes(cfg *config.Config, version string) http.Handler {
	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(cfg.JWT.Secret),
		AccessTokenTTL:  cfg.JWT.AccessTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTTL,
	}

	health := handlers.NewHealthHandler(s.logger, s.store, version)
	auth := handlers.NewAuthHandler(s.logger, s.store, jwtConfig, cfg.BcryptCost)
	profiles := handlers.NewProfileHandler(s.logger, s.store)
	posts := handlers.NewPostHandler(s.logger, s.store, s.store, cfg.PageSize)

	requireAuth := middleware.AuthMiddleware(s.logger, jwtConfig)
	limited := s.limiter.Middleware

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", health.Health)

	mux.Handle("POST /api/v1/auth/signup", limited(http.HandlerFunc(auth.SignUp)))
	mux.Handle("POST /api/v1/auth/signin", limited(http.HandlerFunc(auth.SignIn)))
	mux.Handle("POST /api/v1/auth/refresh", limited(http.HandlerFunc(auth.Refresh)))
	mux.Handle("POST /api/v1/auth/signout", requireAuth(http.HandlerFunc(auth.SignOut)))

	mux.HandleFunc("GET /api/v1/profiles/{accountID}", profiles.GetProfile)
	mux.Handle("POST /api/v1/profiles", requireAuth(http.HandlerFunc(profiles.ClaimUsername)))

	mux.HandleFunc("GET /api/v1/posts", posts.ListPosts)
	mux.HandleFunc("GET /api/v1/posts/{postID}", posts.GetPost)
	mux.Handle("POST /api/v1/posts", requireAuth(http.HandlerFunc(posts.CreatePost)))

	var h http.Handler = mux
	h = middleware.LoggingWithSkip(s.logger, []string{"/api/v1/health"})(h)
	h = middleware.RecoveryMiddleware(s.logger)(h)

	return h
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()

	go s.cleanupTokens(ctx)

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "address", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}

	return nil
}

// cleanupTokens периодически удаляет просроченные refresh tokens
func (s *Server) cleanupTokens(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.DeleteExpiredTokens(ctx)
			if err != nil {
				s.logger.Warn("failed to delete expired tokens", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("expired refresh tokens deleted", "count", n)
			}
		}
	}
}
