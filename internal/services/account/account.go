// Package services содержит бизнес-логику учёта счетов: создание,
// чтение с кешированием, атомарные операции над балансом и жизненным
// циклом, публикацию событий изменений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tudai-mobility/monopatines/internal/models"
	"github.com/tudai-mobility/monopatines/internal/rabbitmq"
)

// AccountRepository определяет методы для работы со счетами в хранилище.
// Мутации баланса и статуса атомарны на уровне строки счёта.
type AccountRepository interface {
	// CreateAccount добавляет новый счёт и возвращает его ID.
	CreateAccount(ctx context.Context, identificationNumber, paymentAccountID string, initialBalance float64) (int64, error)
	// GetAccount возвращает счёт по ID.
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	// ListAccounts возвращает все счета.
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	// ListActiveAccounts возвращает активные счета.
	ListActiveAccounts(ctx context.Context) ([]*models.Account, error)
	// UpdateAccount обновляет поля счёта.
	UpdateAccount(ctx context.Context, id int64, identificationNumber, paymentAccountID string, balance *float64) (*models.Account, error)
	// DeleteAccount удаляет счёт вместе с его связями.
	DeleteAccount(ctx context.Context, id int64) error
	// LoadBalance атомарно пополняет баланс активного счёта.
	LoadBalance(ctx context.Context, id int64, amount float64) (float64, error)
	// DeductBalance атомарно списывает с баланса активного счёта.
	DeductBalance(ctx context.Context, id int64, amount float64) (float64, error)
	// ToggleStatus атомарно переключает активность счёта.
	ToggleStatus(ctx context.Context, id int64) (*models.Account, error)
	// GetBalance возвращает текущий баланс.
	GetBalance(ctx context.Context, id int64) (float64, error)
	// IsAccountActive возвращает признак активности.
	IsAccountActive(ctx context.Context, id int64) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события изменений счетов.
type EventPublisher interface {
	PublishAccountEvent(event rabbitmq.AccountEvent) error
}

// AccountService реализует бизнес-логику работы со счетами.
// Кеш обслуживает только чтение: мутации его инвалидируют и никогда
// из него не читают. Публикация событий best-effort: её отказ
// логируется и не отменяет выполненную операцию.
type AccountService struct {
	repo   AccountRepository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
// events может быть nil, если публикация событий не настроена.
func NewAccountService(repo AccountRepository, cache Cache, events EventPublisher, log *slog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("account:%d", id)
}

// Create создает новый счёт. Начальный баланс по умолчанию 0,
// счёт создаётся активным.
func (s *AccountService) Create(ctx context.Context, req models.DummyAccount) (*models.Account, error) {
	var initialBalance float64
	if req.CurrentBalance != nil {
		initialBalance = *req.CurrentBalance
	}

	id, err := s.repo.CreateAccount(ctx, req.IdentificationNumber, req.PaymentAccountID, initialBalance)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new account", slog.Int64("id", id))

	return s.repo.GetAccount(ctx, id)
}

// Get возвращает счёт по ID, используя кеш или репозиторий.
func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	var result *models.Account
	key := cacheKey(id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read account from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, result, time.Minute); err != nil {
		s.log.Warn("failed to cache account", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает все счета.
func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// ListActive возвращает активные счета.
func (s *AccountService) ListActive(ctx context.Context) ([]*models.Account, error) {
	return s.repo.ListActiveAccounts(ctx)
}

// Update обновляет поля счёта и инвалидирует кеш.
func (s *AccountService) Update(ctx context.Context, id int64, req models.DummyAccount) (*models.Account, error) {
	account, err := s.repo.UpdateAccount(ctx, id, req.IdentificationNumber, req.PaymentAccountID, req.CurrentBalance)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return account, nil
}

// Delete удаляет счёт вместе с его связями и инвалидирует кеш.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// Load пополняет баланс счёта и возвращает новый баланс.
func (s *AccountService) Load(ctx context.Context, id int64, amount float64) (float64, error) {
	balance, err := s.repo.LoadBalance(ctx, id, amount)
	if err != nil {
		return 0, err
	}
	s.log.Info("loaded balance", slog.Int64("account_id", id), slog.Float64("amount", amount))

	s.invalidate(id)
	s.publish(rabbitmq.AccountEvent{
		Type:       rabbitmq.EventBalanceLoaded,
		AccountID:  id,
		Amount:     amount,
		Balance:    balance,
		Active:     true,
		OccurredAt: time.Now().UTC(),
	})
	return balance, nil
}

// Deduct списывает amount с баланса счёта и возвращает новый баланс.
func (s *AccountService) Deduct(ctx context.Context, id int64, amount float64) (float64, error) {
	balance, err := s.repo.DeductBalance(ctx, id, amount)
	if err != nil {
		return 0, err
	}
	s.log.Info("deducted balance", slog.Int64("account_id", id), slog.Float64("amount", amount))

	s.invalidate(id)
	s.publish(rabbitmq.AccountEvent{
		Type:       rabbitmq.EventBalanceDeducted,
		AccountID:  id,
		Amount:     amount,
		Balance:    balance,
		Active:     true,
		OccurredAt: time.Now().UTC(),
	})
	return balance, nil
}

// ToggleStatus переключает счёт между активным и аннулированным
// состоянием и возвращает обновлённый счёт.
func (s *AccountService) ToggleStatus(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.repo.ToggleStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("toggled account status", slog.Int64("account_id", id), slog.Bool("active", account.Active))

	s.invalidate(id)
	s.publish(rabbitmq.AccountEvent{
		Type:       rabbitmq.EventStatusToggled,
		AccountID:  id,
		Balance:    account.CurrentBalance,
		Active:     account.Active,
		OccurredAt: time.Now().UTC(),
	})
	return account, nil
}

// GetBalance возвращает текущий баланс счёта, всегда из хранилища.
func (s *AccountService) GetBalance(ctx context.Context, id int64) (float64, error) {
	return s.repo.GetBalance(ctx, id)
}

// IsActive возвращает признак активности счёта, всегда из хранилища.
func (s *AccountService) IsActive(ctx context.Context, id int64) (bool, error) {
	return s.repo.IsAccountActive(ctx, id)
}

func (s *AccountService) invalidate(id int64) {
	key := cacheKey(id)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
	}
}

func (s *AccountService) publish(event rabbitmq.AccountEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAccountEvent(event); err != nil {
		s.log.Warn("failed to publish account event", slog.String("type", event.Type), slog.Any("err", err))
	}
}
