package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudai-mobility/monopatines/internal/models"
)

func TestStorage_CreateAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.CreateAccount(ctx, "ACC-0001", "mp-acc-1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	account, err := storage.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ACC-0001", account.IdentificationNumber)
	assert.True(t, account.Active)
	assert.Nil(t, account.CancelledAt)
	assert.InDelta(t, 100, account.CurrentBalance, 1e-9)

	// Дубликат идентификационного номера
	_, err = storage.CreateAccount(ctx, "ACC-0001", "mp-acc-2", 0)
	require.ErrorIs(t, err, models.ErrAccountAlreadyExists)
}

func TestStorage_GetAccount_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetAccount(context.Background(), 999)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestStorage_ListAccounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateAccount(t, "ACC-0001", "mp-acc-1", 100, true)
	factory.CreateAccount(t, "ACC-0002", "mp-acc-2", 0, false)
	factory.CreateAccount(t, "ACC-0003", "mp-acc-3", 50, true)

	ctx := context.Background()

	all, err := storage.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := storage.ListActiveAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	for _, a := range active {
		assert.True(t, a.Active)
	}
}

func TestStorage_LoadBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tests := []struct {
		name        string
		balance     float64
		active      bool
		amount      float64
		wantBalance float64
		wantErr     error
	}{
		{
			name:        "успешное пополнение",
			balance:     100,
			active:      true,
			amount:      50,
			wantBalance: 150,
		},
		{
			name:    "пополнение аннулированного счёта",
			balance: 100,
			active:  false,
			amount:  50,
			wantErr: models.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			id := factory.CreateAccount(t, "ACC-0001", "mp-acc-1", tt.balance, tt.active)

			got, err := storage.LoadBalance(context.Background(), id, tt.amount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				NewTestVerification(storage).VerifyBalance(t, id, tt.balance)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBalance, got, 1e-9)
		})
	}
}

func TestStorage_LoadBalance_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.LoadBalance(context.Background(), 999, 10)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestStorage_DeductBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tests := []struct {
		name        string
		balance     float64
		active      bool
		amount      float64
		wantBalance float64
		wantErr     error
	}{
		{
			name:        "успешное списание",
			balance:     100,
			active:      true,
			amount:      30,
			wantBalance: 70,
		},
		{
			name:        "списание ровно всего баланса",
			balance:     100,
			active:      true,
			amount:      100,
			wantBalance: 0,
		},
		{
			name:    "недостаточно средств",
			balance: 100,
			active:  true,
			amount:  100.01,
			wantErr: models.ErrInsufficientBalance,
		},
		{
			name:    "списание с аннулированного счёта",
			balance: 100,
			active:  false,
			amount:  10,
			wantErr: models.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			id := factory.CreateAccount(t, "ACC-0001", "mp-acc-1", tt.balance, tt.active)

			got, err := storage.DeductBalance(context.Background(), id, tt.amount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// Отказ не меняет баланс
				NewTestVerification(storage).VerifyBalance(t, id, tt.balance)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBalance, got, 1e-9)
			NewTestVerification(storage).VerifyBalance(t, id, tt.wantBalance)
		})
	}
}

// Из N конкурентных списаний должны пройти ровно те, на которые хватает
// баланса: итоговый баланс равен balance - успехи*amount и не отрицателен.
func TestStorage_DeductBalance_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	id := factory.CreateAccount(t, "ACC-0001", "mp-acc-1", 50, true)

	const workers = 20
	const amount = 10.0

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.DeductBalance(context.Background(), id, amount)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, models.ErrInsufficientBalance)
			failed++
		}
	}

	assert.Equal(t, 5, succeeded, "баланса 50 хватает ровно на 5 списаний по 10")
	assert.Equal(t, workers-5, failed)
	NewTestVerification(storage).VerifyBalance(t, id, 0)
}

func TestStorage_ToggleStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	id := factory.CreateAccount(t, "ACC-0001", "mp-acc-1", 75, true)

	ctx := context.Background()

	// Аннулирование: баланс сохраняется, фиксируется cancelled_at
	account, err := storage.ToggleStatus(ctx, id)
	require.NoError(t, err)
	assert.False(t, account.Active)
	assert.NotNil(t, account.CancelledAt)
	assert.InDelta(t, 75, account.CurrentBalance, 1e-9)

	// Реактивация: баланс сохраняется, cancelled_at очищается
	account, err = storage.ToggleStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, account.Active)
	assert.Nil(t, account.CancelledAt)
	assert.InDelta(t, 75, account.CurrentBalance, 1e-9)

	_, err = storage.ToggleStatus(ctx, 999)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestStorage_UpdateAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	id := factory.CreateAccount(t, "ACC-0001", "mp-acc-1", 10, true)
	factory.CreateAccount(t, "ACC-0002", "mp-acc-2", 0, true)

	ctx := context.Background()

	// Без баланса: текущий баланс сохраняется
	account, err := storage.UpdateAccount(ctx, id, "ACC-0001-NEW", "mp-acc-1-new", nil)
	require.NoError(t, err)
	assert.Equal(t, "ACC-0001-NEW", account.IdentificationNumber)
	assert.InDelta(t, 10, account.CurrentBalance, 1e-9)

	// С балансом
	newBalance := 42.0
	account, err = storage.UpdateAccount(ctx, id, "ACC-0001-NEW", "mp-acc-1-new", &newBalance)
	require.NoError(t, err)
	assert.InDelta(t, 42, account.CurrentBalance, 1e-9)

	// Конфликт идентификационного номера
	_, err = storage.UpdateAccount(ctx, id, "ACC-0002", "mp-acc-1-new", nil)
	require.ErrorIs(t, err, models.ErrAccountAlreadyExists)

	_, err = storage.UpdateAccount(ctx, 999, "ACC-0999", "mp-acc-999", nil)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestStorage_DeleteAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	accountID := factory.CreateAccount(t, "ACC-0001", "mp-acc-1", 0, true)
	userID := factory.CreateUser(t, "Lucia", "Fernandez", "lucia@example.com", "+54-249-1", "hash")
	factory.Associate(t, accountID, userID)

	ctx := context.Background()

	err := storage.DeleteAccount(ctx, accountID)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifyAccountDeleted(t, accountID)
	verification.VerifyAssociationCount(t, accountID, 0)

	err = storage.DeleteAccount(ctx, accountID)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestStorage_GetBalance_IsAccountActive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	id := factory.CreateAccount(t, "ACC-0001", "mp-acc-1", 33, false)

	ctx := context.Background()

	balance, err := storage.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 33, balance, 1e-9)

	active, err := storage.IsAccountActive(ctx, id)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = storage.GetBalance(ctx, 999)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
	_, err = storage.IsAccountActive(ctx, 999)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}
