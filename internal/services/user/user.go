// Package services содержит бизнес-логику работы с пользователями:
// регистрацию с назначением базовой роли, CRUD и проверку пароля для
// auth-service.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tudai-mobility/monopatines/internal/lib/password"
	"github.com/tudai-mobility/monopatines/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser добавляет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, u models.User) (int64, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// UpdateUser обновляет идентификационные поля пользователя.
	UpdateUser(ctx context.Context, id int64, firstName, lastName, email, phoneNumber string) (*models.User, error)
	// DeleteUser удаляет пользователя вместе с его связями.
	DeleteUser(ctx context.Context, id int64) error
	// GetRolesByUserID возвращает имена ролей пользователя.
	GetRolesByUserID(ctx context.Context, userID int64) ([]string, error)
	// AssignRole назначает пользователю роль по имени.
	AssignRole(ctx context.Context, userID int64, roleName string) error
}

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Create регистрирует нового пользователя и назначает ему роль ROLE_USER.
func (s *UserService) Create(ctx context.Context, req models.DummyUser) (*models.User, error) {
	id, err := s.repo.CreateUser(ctx, models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: req.PasswordHash,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.AssignRole(ctx, id, models.RoleUser); err != nil {
		return nil, err
	}
	s.log.Info("created new user", slog.Int64("id", id), slog.String("email", req.Email))

	return s.Get(ctx, id)
}

// Get возвращает пользователя по ID вместе с его ролями.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.attachRoles(ctx, user)
}

// GetByEmail возвращает пользователя по email вместе с его ролями.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.attachRoles(ctx, user)
}

// List возвращает всех пользователей. Роли не подгружаются:
// списочная выдача не используется для авторизации.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// Update обновляет поля пользователя.
func (s *UserService) Update(ctx context.Context, id int64, req models.DummyUser) (*models.User, error) {
	user, err := s.repo.UpdateUser(ctx, id, req.FirstName, req.LastName, req.Email, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return s.attachRoles(ctx, user)
}

// Delete удаляет пользователя вместе с его связями со счетами.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

// AssignRole назначает пользователю роль по имени. Повторное назначение
// той же роли — no-op.
func (s *UserService) AssignRole(ctx context.Context, userID int64, roleName string) error {
	if err := s.repo.AssignRole(ctx, userID, roleName); err != nil {
		return err
	}
	s.log.Info("assigned role", slog.Int64("user_id", userID), slog.String("role", roleName))
	return nil
}

// ValidatePassword сверяет пароль с хэшем пользователя по email.
// Отсутствие пользователя и несовпадение пароля дают одинаковый
// результат false без ошибки, чтобы не раскрывать наличие учётной записи.
func (s *UserService) ValidatePassword(ctx context.Context, email, plainPassword string) (bool, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := password.CompareHash(user.PasswordHash, plainPassword); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *UserService) attachRoles(ctx context.Context, user *models.User) (*models.User, error) {
	roles, err := s.repo.GetRolesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}
