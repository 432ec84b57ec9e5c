package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tudai-mobility/monopatines/internal/models"
)

const accountColumns = `id, identification_number, payment_account_id,
			      current_balance, active, created_at, cancelled_at`

// scanAccount читает строку счёта из запроса.
func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	a := &models.Account{}
	var cancelledAt sql.NullTime
	if err := row.Scan(&a.ID, &a.IdentificationNumber, &a.PaymentAccountID,
		&a.CurrentBalance, &a.Active, &a.CreatedAt, &cancelledAt); err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		a.CancelledAt = &cancelledAt.Time
	}
	return a, nil
}

// CreateAccount сохраняет новый счёт и возвращает его ID.
// Счёт создаётся активным; дубликат идентификационного номера
// возвращает ErrAccountAlreadyExists.
func (s *Storage) CreateAccount(ctx context.Context, identificationNumber, paymentAccountID string, initialBalance float64) (int64, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO accounts (identification_number, payment_account_id, current_balance)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		identificationNumber, paymentAccountID, initialBalance).Scan(&newID); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrAccountAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAccount возвращает счёт по его ID.
func (s *Storage) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE id = $1`
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListAccounts возвращает все счета.
func (s *Storage) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.ListAccounts"
	return s.listAccounts(ctx, op, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
}

// ListActiveAccounts возвращает только активные счета.
func (s *Storage) ListActiveAccounts(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.ListActiveAccounts"
	return s.listAccounts(ctx, op, `SELECT `+accountColumns+` FROM accounts WHERE active ORDER BY id`)
}

func (s *Storage) listAccounts(ctx context.Context, op, query string, args ...any) ([]*models.Account, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
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

// UpdateAccount обновляет идентификационный номер, платёжный аккаунт
// и (если передан) баланс счёта. Конфликт идентификационного номера
// возвращает ErrAccountAlreadyExists.
func (s *Storage) UpdateAccount(ctx context.Context, id int64, identificationNumber, paymentAccountID string, balance *float64) (*models.Account, error) {
	const op = "storage.UpdateAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET identification_number = $2,
			      payment_account_id = $3,
			      current_balance = COALESCE($4, current_balance)
			  WHERE id = $1
			  RETURNING ` + accountColumns
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, id, identificationNumber, paymentAccountID, balance))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
		}
		if isPgError(err, pgUniqueViolation) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAccountAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// DeleteAccount удаляет счёт вместе с его связями счёт-пользователь
// в одной транзакции.
func (s *Storage) DeleteAccount(ctx context.Context, id int64) error {
	const op = "storage.DeleteAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM account_users WHERE account_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	return tx.Commit()
}

// LoadBalance пополняет баланс активного счёта и возвращает новый баланс.
// Проверка активности и запись выполняются одним UPDATE: параллельный
// toggle не может вклиниться между проверкой и записью.
func (s *Storage) LoadBalance(ctx context.Context, id int64, amount float64) (float64, error) {
	const op = "storage.LoadBalance"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET current_balance = current_balance + $2
			  WHERE id = $1 AND active
			  RETURNING current_balance`
	var balance float64
	err := s.DB.QueryRowContext(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, s.classifyBalanceFailure(ctx, id, 0))
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// DeductBalance списывает amount с баланса активного счёта и возвращает
// новый баланс. Проверка активности, проверка достаточности баланса и
// запись — один UPDATE: из N конкурентных списаний пройдут ровно те,
// на которые хватает баланса, отрицательный баланс невозможен.
func (s *Storage) DeductBalance(ctx context.Context, id int64, amount float64) (float64, error) {
	const op = "storage.DeductBalance"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET current_balance = current_balance - $2
			  WHERE id = $1 AND active AND current_balance >= $2
			  RETURNING current_balance`
	var balance float64
	err := s.DB.QueryRowContext(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, s.classifyBalanceFailure(ctx, id, amount))
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// classifyBalanceFailure определяет причину отказа условного UPDATE
// баланса: счёт отсутствует, аннулирован или баланс недостаточен.
// Повторное чтение не участвует в инварианте: сам баланс защищён
// условием UPDATE, здесь выбирается только категория ошибки.
func (s *Storage) classifyBalanceFailure(ctx context.Context, id int64, deductAmount float64) error {
	var active bool
	var balance float64
	err := s.DB.QueryRowContext(ctx,
		`SELECT active, current_balance FROM accounts WHERE id = $1`, id).Scan(&active, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	if !active {
		return models.ErrAccountInactive
	}
	if deductAmount > 0 && balance < deductAmount {
		return models.ErrInsufficientBalance
	}
	// Состояние изменилось между UPDATE и чтением; для вызывающего
	// счёт был неактивен в момент операции.
	return models.ErrAccountInactive
}

// ToggleStatus переключает счёт между активным и аннулированным
// состоянием одним UPDATE и возвращает обновлённый счёт. При
// аннулировании фиксируется cancelled_at, при реактивации поле
// очищается.
func (s *Storage) ToggleStatus(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.ToggleStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET active = NOT active,
			      cancelled_at = CASE WHEN active THEN now() ELSE NULL END
			  WHERE id = $1
			  RETURNING ` + accountColumns
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetBalance возвращает текущий баланс счёта.
func (s *Storage) GetBalance(ctx context.Context, id int64) (float64, error) {
	const op = "storage.GetBalance"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var balance float64
	err := s.DB.QueryRowContext(ctx,
		`SELECT current_balance FROM accounts WHERE id = $1`, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// IsAccountActive возвращает признак активности счёта. Используется
// другими сервисами перед стартом поездки.
func (s *Storage) IsAccountActive(ctx context.Context, id int64) (bool, error) {
	const op = "storage.IsAccountActive"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var active bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT active FROM accounts WHERE id = $1`, id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return active, nil
}
