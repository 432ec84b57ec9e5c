package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tudai-mobility/monopatines/internal/models"
)

// Associate создаёт связь счёт-пользователь и возвращает её.
// Отсутствующий счёт или пользователь дают типизированную NotFound
// ошибку, существующая пара — ErrAssociationAlreadyExists.
func (s *Storage) Associate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error) {
	const op = "storage.Associate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := s.checkPairExists(ctx, op, accountID, userID); err != nil {
		return nil, err
	}

	au := &models.AccountUser{AccountID: accountID, UserID: userID}
	query := `INSERT INTO account_users (account_id, user_id)
			  VALUES ($1, $2)
			  RETURNING associated_at`
	if err := s.DB.QueryRowContext(ctx, query, accountID, userID).Scan(&au.AssociatedAt); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAssociationAlreadyExists)
		}
		if isPgError(err, pgForeignKeyViolation) {
			return nil, fmt.Errorf("%s: %w", op, classifyAssociationFK(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return au, nil
}

// Disassociate удаляет связь счёт-пользователь и возвращает её.
// Отсутствие пары — типизированная ErrAssociationNotFound.
func (s *Storage) Disassociate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error) {
	const op = "storage.Disassociate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := s.checkPairExists(ctx, op, accountID, userID); err != nil {
		return nil, err
	}

	au := &models.AccountUser{AccountID: accountID, UserID: userID}
	query := `DELETE FROM account_users
			  WHERE account_id = $1 AND user_id = $2
			  RETURNING associated_at`
	err := s.DB.QueryRowContext(ctx, query, accountID, userID).Scan(&au.AssociatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAssociationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return au, nil
}

// classifyAssociationFK определяет, какая сторона пары исчезла между
// checkPairExists и вставкой, по имени нарушенного ограничения.
func classifyAssociationFK(err error) error {
	if strings.Contains(pgConstraint(err), "user_id") {
		return models.ErrUserNotFound
	}
	return models.ErrAccountNotFound
}

// checkPairExists проверяет существование счёта и пользователя,
// возвращая типизированную NotFound ошибку для отсутствующей стороны.
func (s *Storage) checkPairExists(ctx context.Context, op string, accountID, userID int64) error {
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}

// ListUsersByAccount возвращает пользователей, связанных со счётом.
func (s *Storage) ListUsersByAccount(ctx context.Context, accountID int64) ([]*models.User, error) {
	const op = "storage.ListUsersByAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}

	query := `SELECT u.id, u.first_name, u.last_name, u.email, u.phone_number,
			      u.password_hash, u.created_at
			  FROM account_users au
			  JOIN users u ON u.id = au.user_id
			  WHERE au.account_id = $1
			  ORDER BY u.id`
	rows, err := s.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAccountsByUser возвращает счета, связанные с пользователем.
func (s *Storage) ListAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	const op = "storage.ListAccountsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}

	query := `SELECT a.id, a.identification_number, a.payment_account_id,
			      a.current_balance, a.active, a.created_at, a.cancelled_at
			  FROM account_users au
			  JOIN accounts a ON a.id = au.account_id
			  WHERE au.user_id = $1
			  ORDER BY a.id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
