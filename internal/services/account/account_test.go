package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tudai-mobility/monopatines/internal/models"
	"github.com/tudai-mobility/monopatines/internal/rabbitmq"
)

// MockRepository реализует интерфейс AccountRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAccount(ctx context.Context, identificationNumber, paymentAccountID string, initialBalance float64) (int64, error) {
	args := m.Called(ctx, identificationNumber, paymentAccountID, initialBalance)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListActiveAccounts(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateAccount(ctx context.Context, id int64, identificationNumber, paymentAccountID string, balance *float64) (*models.Account, error) {
	args := m.Called(ctx, id, identificationNumber, paymentAccountID, balance)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) DeleteAccount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) LoadBalance(ctx context.Context, id int64, amount float64) (float64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) DeductBalance(ctx context.Context, id int64, amount float64) (float64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) ToggleStatus(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetBalance(ctx context.Context, id int64) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) IsAccountActive(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(bool), args.Error(1)
}

// MockCache реализует интерфейс Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockPublisher реализует интерфейс EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAccountEvent(event rabbitmq.AccountEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAccountService_Create(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewAccountService(repo, cache, nil, newNoopLogger())

	account := &models.Account{ID: 1, IdentificationNumber: "ACC-0001", Active: true}
	repo.On("CreateAccount", mock.Anything, "ACC-0001", "mp-acc-1", 0.0).Return(int64(1), nil)
	repo.On("GetAccount", mock.Anything, int64(1)).Return(account, nil)

	got, err := svc.Create(context.Background(), models.DummyAccount{
		IdentificationNumber: "ACC-0001",
		PaymentAccountID:     "mp-acc-1",
	})
	require.NoError(t, err)
	assert.Equal(t, account, got)
	repo.AssertExpectations(t)
}

func TestAccountService_Get_CacheHit(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewAccountService(repo, cache, nil, newNoopLogger())

	cached := &models.Account{ID: 7, IdentificationNumber: "ACC-0007"}
	cache.On("Get", "account:7", mock.Anything).Run(func(args mock.Arguments) {
		ptr := args.Get(1).(**models.Account)
		*ptr = cached
	}).Return(true, nil)

	got, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, cached, got)
	repo.AssertNotCalled(t, "GetAccount", mock.Anything, mock.Anything)
}

func TestAccountService_Get_CacheMiss(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewAccountService(repo, cache, nil, newNoopLogger())

	account := &models.Account{ID: 7, IdentificationNumber: "ACC-0007"}
	cache.On("Get", "account:7", mock.Anything).Return(false, nil)
	repo.On("GetAccount", mock.Anything, int64(7)).Return(account, nil)
	cache.On("Set", "account:7", account, time.Minute).Return(nil)

	got, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, account, got)
	cache.AssertExpectations(t)
}

func TestAccountService_Deduct(t *testing.T) {
	tests := []struct {
		name        string
		repoBalance float64
		repoErr     error
		wantErr     error
		wantEvent   bool
	}{
		{
			name:        "успешное списание публикует событие и инвалидирует кеш",
			repoBalance: 70,
			wantEvent:   true,
		},
		{
			name:    "отказ репозитория не публикует событие",
			repoErr: models.ErrInsufficientBalance,
			wantErr: models.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			cache := new(MockCache)
			publisher := new(MockPublisher)
			svc := NewAccountService(repo, cache, publisher, newNoopLogger())

			repo.On("DeductBalance", mock.Anything, int64(1), 30.0).Return(tt.repoBalance, tt.repoErr)
			if tt.wantEvent {
				cache.On("Invalidate", "account:1").Return(nil)
				publisher.On("PublishAccountEvent", mock.MatchedBy(func(e rabbitmq.AccountEvent) bool {
					return e.Type == rabbitmq.EventBalanceDeducted && e.AccountID == 1 && e.Balance == 70
				})).Return(nil)
			}

			balance, err := svc.Deduct(context.Background(), 1, 30)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				publisher.AssertNotCalled(t, "PublishAccountEvent", mock.Anything)
				cache.AssertNotCalled(t, "Invalidate", mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.repoBalance, balance)
			publisher.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestAccountService_Deduct_PublishFailureDoesNotFailOperation(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	publisher := new(MockPublisher)
	svc := NewAccountService(repo, cache, publisher, newNoopLogger())

	repo.On("DeductBalance", mock.Anything, int64(1), 30.0).Return(70.0, nil)
	cache.On("Invalidate", "account:1").Return(nil)
	publisher.On("PublishAccountEvent", mock.Anything).Return(errors.New("broker down"))

	balance, err := svc.Deduct(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 70.0, balance)
}

func TestAccountService_ToggleStatus(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	publisher := new(MockPublisher)
	svc := NewAccountService(repo, cache, publisher, newNoopLogger())

	account := &models.Account{ID: 1, CurrentBalance: 25, Active: false}
	repo.On("ToggleStatus", mock.Anything, int64(1)).Return(account, nil)
	cache.On("Invalidate", "account:1").Return(nil)
	publisher.On("PublishAccountEvent", mock.MatchedBy(func(e rabbitmq.AccountEvent) bool {
		return e.Type == rabbitmq.EventStatusToggled && !e.Active && e.Balance == 25
	})).Return(nil)

	got, err := svc.ToggleStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, account, got)
	publisher.AssertExpectations(t)
}

func TestAccountService_NilPublisher(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := NewAccountService(repo, cache, nil, newNoopLogger())

	repo.On("LoadBalance", mock.Anything, int64(1), 10.0).Return(110.0, nil)
	cache.On("Invalidate", "account:1").Return(nil)

	balance, err := svc.Load(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 110.0, balance)
}
