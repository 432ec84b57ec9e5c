// Package seed наполняет базу данных стартовыми данными: словарём ролей
// и, при включённом seed_data, демонстрационными счетами и пользователями.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tudai-mobility/monopatines/internal/lib/password"
	"github.com/tudai-mobility/monopatines/internal/lib/sl"
	"github.com/tudai-mobility/monopatines/internal/models"
	"github.com/tudai-mobility/monopatines/internal/storage/repository"
)

// Run создаёт словарь ролей и, при withSampleData, демонстрационные
// данные. Повторный запуск безопасен: существующие записи пропускаются.
func Run(ctx context.Context, db *repository.Storage, log *slog.Logger, withSampleData bool) error {
	const op = "seed.Run"

	if err := db.EnsureRoles(ctx, models.AllRoles()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("role dictionary ensured")

	if !withSampleData {
		return nil
	}
	if err := sampleData(ctx, db, log); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func sampleData(ctx context.Context, db *repository.Storage, log *slog.Logger) error {
	users := []struct {
		firstName, lastName, email, phone, role string
	}{
		{"Lucia", "Fernandez", "lucia.fernandez@example.com", "+54-249-400-0001", models.RoleUser},
		{"Marcos", "Gimenez", "marcos.gimenez@example.com", "+54-249-400-0002", models.RoleEmployee},
		{"Sofia", "Acosta", "sofia.acosta@example.com", "+54-249-400-0003", models.RoleAdmin},
	}

	var userIDs []int64
	for _, u := range users {
		hash, err := password.GetHash("changeme123")
		if err != nil {
			return err
		}
		id, err := db.CreateUser(ctx, models.User{
			FirstName:    u.firstName,
			LastName:     u.lastName,
			Email:        u.email,
			PhoneNumber:  u.phone,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, models.ErrUserAlreadyExists) {
				log.Info("sample user already present", slog.String("email", u.email))
				continue
			}
			return err
		}
		if err := db.AssignRole(ctx, id, u.role); err != nil {
			return err
		}
		userIDs = append(userIDs, id)
	}

	balances := []float64{250, 0}
	var accountIDs []int64
	for i, balance := range balances {
		id, err := db.CreateAccount(ctx,
			fmt.Sprintf("SEED-%04d", i+1),
			uuid.NewString(),
			balance)
		if err != nil {
			if errors.Is(err, models.ErrAccountAlreadyExists) {
				log.Info("sample account already present", slog.Int("n", i+1))
				continue
			}
			return err
		}
		accountIDs = append(accountIDs, id)
	}

	if len(userIDs) > 0 && len(accountIDs) > 0 {
		if _, err := db.Associate(ctx, accountIDs[0], userIDs[0]); err != nil &&
			!errors.Is(err, models.ErrAssociationAlreadyExists) {
			log.Warn("failed to associate sample data", sl.Err(err))
		}
	}

	log.Info("sample data seeded",
		slog.Int("users", len(userIDs)), slog.Int("accounts", len(accountIDs)))
	return nil
}
