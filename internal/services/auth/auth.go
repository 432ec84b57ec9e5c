// Package services содержит бизнес-логику аутентификации: регистрацию
// через accounts-service и вход с выпуском JWT.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tudai-mobility/monopatines/internal/lib/jwt"
	"github.com/tudai-mobility/monopatines/internal/lib/password"
	"github.com/tudai-mobility/monopatines/internal/models"
)

// UsersClient определяет операции над пользователями, которые auth-service
// делегирует accounts-service.
type UsersClient interface {
	// CreateUser регистрирует пользователя. Пароль передаётся уже захэшированным.
	CreateUser(ctx context.Context, req models.DummyUser) (*models.User, error)
	// GetUserByEmail возвращает пользователя с ролями по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ValidatePassword проверяет пару email/пароль.
	ValidatePassword(ctx context.Context, email, plainPassword string) (bool, error)
}

// LoginResult результат успешного входа: токен и сведения о владельце.
type LoginResult struct {
	Token  string   `json:"token"`
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// RegisterRequest данные регистрации нового пользователя.
// В отличие от models.DummyUser содержит пароль открытым текстом:
// хэширование выполняется здесь, до передачи в accounts-service.
type RegisterRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
}

// AuthService реализует регистрацию и вход пользователей.
type AuthService struct {
	users UsersClient
	maker jwt.Maker
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UsersClient, maker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users: users,
		maker: maker,
		log:   log,
	}
}

// Register хэширует пароль и создаёт пользователя в accounts-service.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	const op = "auth.Register"
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.DummyUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registered new user", slog.Int64("id", user.ID), slog.String("email", user.Email))
	return user, nil
}

// Login проверяет учётные данные и выпускает JWT с ролями пользователя.
// Отсутствие пользователя и неверный пароль дают одну и ту же ошибку
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	const op = "auth.Login"
	valid, err := s.users.ValidatePassword(ctx, email, plainPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !valid {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.maker.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged in", slog.Int64("id", user.ID), slog.String("email", user.Email))

	return &LoginResult{
		Token:  token,
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
	}, nil
}
