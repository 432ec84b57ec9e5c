// Package accountsservice собирает и запускает HTTP-сервис счетов:
// хранилище, миграции, кеш, публикацию событий и маршруты.
package accountsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/tudai-mobility/monopatines/internal/cache"
	"github.com/tudai-mobility/monopatines/internal/config"
	"github.com/tudai-mobility/monopatines/internal/lib/jwt"
	"github.com/tudai-mobility/monopatines/internal/migrations"
	"github.com/tudai-mobility/monopatines/internal/rabbitmq"
	"github.com/tudai-mobility/monopatines/internal/seed"
	accountservice "github.com/tudai-mobility/monopatines/internal/services/account"
	accountuserservice "github.com/tudai-mobility/monopatines/internal/services/accountuser"
	userservice "github.com/tudai-mobility/monopatines/internal/services/user"
	"github.com/tudai-mobility/monopatines/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = waitForDB(db); err != nil {
		return nil, err
	}

	if err = seed.Run(ctx, db, logger, cfg.SeedData); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Публикация событий опциональна: без брокера сервис работает,
	// события не публикуются.
	var (
		conn      *amqp.Connection
		ch        *amqp.Channel
		publisher accountservice.EventPublisher
	)
	if cfg.RabbitConnectionString != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitConnectionString, cfg.RabbitRetries, cfg.RabbitRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetAccountEventQueues())
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		publisher = rabbitmq.NewPublisher(ch)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	accountService := accountservice.NewAccountService(db, cacheRedis, publisher, logger)
	userService := userservice.NewUserService(db, logger)
	accountUserService := accountuserservice.NewAccountUserService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, accountService, userService, accountUserService)

	srv := &http.Server{
		Addr:         cfg.AccountsHTTP.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.AccountsHTTP.TimeoutHTTP,
		WriteTimeout: cfg.AccountsHTTP.TimeoutHTTP,
		IdleTimeout:  cfg.AccountsHTTP.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
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
		err := a.server.Shutdown(timeoutCtx)
		if a.ch != nil {
			if closeErr := a.ch.Close(); closeErr != nil {
				a.logger.Error("failed to close channel", slog.Any("err", closeErr))
			}
		}
		if a.conn != nil {
			if closeErr := a.conn.Close(); closeErr != nil {
				a.logger.Error("failed to close connection", slog.Any("err", closeErr))
			}
		}
		_ = a.db.DB.Close()
		return err
	}
}
