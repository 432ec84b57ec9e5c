package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tudai-mobility/monopatines/internal/models"
)

func TestClassifyAssociationFK(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{
			name:       "исчез пользователь",
			constraint: "account_users_user_id_fkey",
			want:       models.ErrUserNotFound,
		},
		{
			name:       "исчез счёт",
			constraint: "account_users_account_id_fkey",
			want:       models.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: tt.constraint}
			wrapped := fmt.Errorf("insert: %w", pgErr)
			assert.ErrorIs(t, classifyAssociationFK(wrapped), tt.want)
		})
	}
}
