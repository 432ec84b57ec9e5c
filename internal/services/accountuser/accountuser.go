// Package services содержит бизнес-логику связей many-to-many между
// счетами и пользователями.
package services

import (
	"context"
	"log/slog"

	"github.com/tudai-mobility/monopatines/internal/models"
)

// AssociationRepository определяет методы хранилища для связей
// счёт-пользователь.
type AssociationRepository interface {
	// Associate создаёт связь счёт-пользователь.
	Associate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error)
	// Disassociate удаляет связь счёт-пользователь.
	Disassociate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error)
	// ListUsersByAccount возвращает пользователей, связанных со счётом.
	ListUsersByAccount(ctx context.Context, accountID int64) ([]*models.User, error)
	// ListAccountsByUser возвращает счета, связанные с пользователем.
	ListAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error)
	// GetRolesByUserID возвращает имена ролей пользователя.
	GetRolesByUserID(ctx context.Context, userID int64) ([]string, error)
}

// UsersByAccount список пользователей счёта с информационным сообщением.
type UsersByAccount struct {
	AccountID int64          `json:"account_id"`
	Users     []*models.User `json:"users"`
	Message   string         `json:"message"`
}

// AccountsByUser список счетов пользователя с информационным сообщением.
type AccountsByUser struct {
	UserID   int64             `json:"user_id"`
	Accounts []*models.Account `json:"accounts"`
	Message  string            `json:"message"`
}

// AccountUserService реализует бизнес-логику связей счёт-пользователь.
type AccountUserService struct {
	repo AssociationRepository
	log  *slog.Logger
}

// NewAccountUserService создает новый экземпляр AccountUserService.
func NewAccountUserService(repo AssociationRepository, log *slog.Logger) *AccountUserService {
	return &AccountUserService{
		repo: repo,
		log:  log,
	}
}

// Associate связывает пользователя со счётом. Повторная связь той же
// пары — ошибка, а не no-op.
func (s *AccountUserService) Associate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error) {
	au, err := s.repo.Associate(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("associated user to account",
		slog.Int64("account_id", accountID), slog.Int64("user_id", userID))
	return au, nil
}

// Disassociate удаляет связь пользователя со счётом.
func (s *AccountUserService) Disassociate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error) {
	au, err := s.repo.Disassociate(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("disassociated user from account",
		slog.Int64("account_id", accountID), slog.Int64("user_id", userID))
	return au, nil
}

// UsersByAccount возвращает пользователей счёта вместе с их ролями.
// Пустой список — успех с информационным сообщением, не ошибка.
func (s *AccountUserService) UsersByAccount(ctx context.Context, accountID int64) (*UsersByAccount, error) {
	users, err := s.repo.ListUsersByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		roles, err := s.repo.GetRolesByUserID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		u.Roles = roles
	}

	message := "users associated with the account found"
	if len(users) == 0 {
		message = "the account has no associated users"
	}
	return &UsersByAccount{
		AccountID: accountID,
		Users:     users,
		Message:   message,
	}, nil
}

// AccountsByUser возвращает счета, кредиты которых может расходовать
// пользователь.
func (s *AccountUserService) AccountsByUser(ctx context.Context, userID int64) (*AccountsByUser, error) {
	accounts, err := s.repo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := "accounts associated with the user found"
	if len(accounts) == 0 {
		message = "the user has no associated accounts"
	}
	return &AccountsByUser{
		UserID:   userID,
		Accounts: accounts,
		Message:  message,
	}, nil
}
