// Package authservice собирает и запускает HTTP-сервис аутентификации.
// Собственного хранилища у сервиса нет: учётные записи живут в
// accounts-service, сюда относится только проверка учётных данных
// и выпуск JWT.
package authservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	accountsclient "github.com/tudai-mobility/monopatines/internal/clients/accounts"
	"github.com/tudai-mobility/monopatines/internal/config"
	"github.com/tudai-mobility/monopatines/internal/lib/jwt"
	authservice "github.com/tudai-mobility/monopatines/internal/services/auth"
)

type App struct {
	server *http.Server
	logger *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	usersClient := accountsclient.NewClient(cfg.AccountsServiceBaseURL)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(usersClient, jwtMaker, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService)

	srv := &http.Server{
		Addr:         cfg.AuthHTTP.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.AuthHTTP.TimeoutHTTP,
		WriteTimeout: cfg.AuthHTTP.TimeoutHTTP,
		IdleTimeout:  cfg.AuthHTTP.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
