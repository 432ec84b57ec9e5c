package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tudai-mobility/monopatines/internal/models"
)

// MockRepository реализует интерфейс AssociationRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Associate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error) {
	args := m.Called(ctx, accountID, userID)
	if res := args.Get(0); res != nil {
		return res.(*models.AccountUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Disassociate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error) {
	args := m.Called(ctx, accountID, userID)
	if res := args.Get(0); res != nil {
		return res.(*models.AccountUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListUsersByAccount(ctx context.Context, accountID int64) ([]*models.User, error) {
	args := m.Called(ctx, accountID)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetRolesByUserID(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAccountUserService_Associate(t *testing.T) {
	repo := new(MockRepository)
	svc := NewAccountUserService(repo, newNoopLogger())

	au := &models.AccountUser{AccountID: 1, UserID: 2}
	repo.On("Associate", mock.Anything, int64(1), int64(2)).Return(au, nil)

	got, err := svc.Associate(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, au, got)
}

func TestAccountUserService_Associate_Duplicate(t *testing.T) {
	repo := new(MockRepository)
	svc := NewAccountUserService(repo, newNoopLogger())

	repo.On("Associate", mock.Anything, int64(1), int64(2)).Return(nil, models.ErrAssociationAlreadyExists)

	_, err := svc.Associate(context.Background(), 1, 2)
	require.ErrorIs(t, err, models.ErrAssociationAlreadyExists)
}

func TestAccountUserService_UsersByAccount(t *testing.T) {
	tests := []struct {
		name        string
		users       []*models.User
		wantMessage string
	}{
		{
			name:        "пользователи найдены",
			users:       []*models.User{{ID: 2, Email: "lucia@example.com"}},
			wantMessage: "users associated with the account found",
		},
		{
			name:        "пустой список — успех с сообщением",
			users:       []*models.User{},
			wantMessage: "the account has no associated users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewAccountUserService(repo, newNoopLogger())

			repo.On("ListUsersByAccount", mock.Anything, int64(1)).Return(tt.users, nil)
			for _, u := range tt.users {
				repo.On("GetRolesByUserID", mock.Anything, u.ID).Return([]string{models.RoleUser}, nil)
			}

			got, err := svc.UsersByAccount(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, int64(1), got.AccountID)
			assert.Equal(t, tt.wantMessage, got.Message)
			for _, u := range got.Users {
				assert.Equal(t, []string{models.RoleUser}, u.Roles)
			}
		})
	}
}

func TestAccountUserService_AccountsByUser(t *testing.T) {
	repo := new(MockRepository)
	svc := NewAccountUserService(repo, newNoopLogger())

	repo.On("ListAccountsByUser", mock.Anything, int64(2)).Return([]*models.Account{}, nil)

	got, err := svc.AccountsByUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "the user has no associated accounts", got.Message)
	assert.Empty(t, got.Accounts)
}

func TestAccountUserService_UsersByAccount_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewAccountUserService(repo, newNoopLogger())

	repo.On("ListUsersByAccount", mock.Anything, int64(999)).Return(nil, models.ErrAccountNotFound)

	_, err := svc.UsersByAccount(context.Background(), 999)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}
