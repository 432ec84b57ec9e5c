package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tudai-mobility/monopatines/internal/models"
)

// EnsureRoles создаёт отсутствующие роли из словаря. Существующие роли
// не изменяются: словарь закрыт, роли создаются один раз при старте.
func (s *Storage) EnsureRoles(ctx context.Context, roles []models.Role) error {
	const op = "storage.EnsureRoles"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO roles (name, description)
			  VALUES ($1, $2)
			  ON CONFLICT (name) DO NOTHING`
	for _, r := range roles {
		if _, err := s.DB.ExecContext(ctx, query, r.Name, r.Description); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// GetRolesByUserID возвращает имена ролей, назначенных пользователю.
// Для пользователя без ролей возвращается пустой список.
func (s *Storage) GetRolesByUserID(ctx context.Context, userID int64) ([]string, error) {
	const op = "storage.GetRolesByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.name
			  FROM user_roles ur
			  JOIN roles r ON r.id = ur.role_id
			  WHERE ur.user_id = $1
			  ORDER BY r.name`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AssignRole назначает пользователю роль по имени. Повторное назначение
// той же роли не является ошибкой.
func (s *Storage) AssignRole(ctx context.Context, userID int64, roleName string) error {
	const op = "storage.AssignRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var roleID int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id FROM roles WHERE name = $1`, roleName).Scan(&roleID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrUnknownRole)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO user_roles (user_id, role_id)
			  VALUES ($1, $2)
			  ON CONFLICT (user_id, role_id) DO NOTHING`
	if _, err = s.DB.ExecContext(ctx, query, userID, roleID); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
