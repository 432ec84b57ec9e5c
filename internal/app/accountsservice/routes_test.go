package accountsservice

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tudai-mobility/monopatines/internal/http/middlewarectx"
	"github.com/tudai-mobility/monopatines/internal/models"
)

// Решение о доступе проверяется на собранной таблице правил сервиса,
// без роутера: middleware сопоставляет метод и путь до chi.
func requestWithRoles(t *testing.T, method, path string, roles []string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	handler := middlewarectx.AccessMiddleware(accessRules(), logger)(next)

	req := httptest.NewRequest(method, path, nil)
	if roles != nil {
		ctx := context.WithValue(req.Context(), middlewarectx.UserID, int64(1))
		ctx = context.WithValue(ctx, middlewarectx.Roles, roles)
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAccessRules_BalanceMutations(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		roles      []string // nil — запрос без личности
		wantStatus int
	}{
		{
			name:       "списание закрыто для ROLE_USER",
			method:     http.MethodPost,
			path:       "/api/v1/accounts/1/deduct",
			roles:      []string{models.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "списание закрыто для ROLE_EMPLOYEE",
			method:     http.MethodPost,
			path:       "/api/v1/accounts/1/deduct",
			roles:      []string{models.RoleEmployee},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "списание открыто администратору",
			method:     http.MethodPost,
			path:       "/api/v1/accounts/1/deduct",
			roles:      []string{models.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "пополнение открыто ROLE_USER",
			method:     http.MethodPost,
			path:       "/api/v1/accounts/1/load",
			roles:      []string{models.RoleUser},
			wantStatus: http.StatusOK,
		},
		{
			name:       "пополнение закрыто для ROLE_EMPLOYEE",
			method:     http.MethodPost,
			path:       "/api/v1/accounts/1/load",
			roles:      []string{models.RoleEmployee},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "переключение статуса только администратору",
			method:     http.MethodPost,
			path:       "/api/v1/accounts/1/toggle-status",
			roles:      []string{models.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "списание без личности — 401",
			method:     http.MethodPost,
			path:       "/api/v1/accounts/1/deduct",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := requestWithRoles(t, tt.method, tt.path, tt.roles)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestAccessRules_ReadsAndUsers(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		roles      []string
		wantStatus int
	}{
		{
			name:       "статус счёта закрыт для ROLE_USER",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/1/status",
			roles:      []string{models.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "статус счёта открыт сотруднику",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/1/status",
			roles:      []string{models.RoleEmployee},
			wantStatus: http.StatusOK,
		},
		{
			name:       "обновление пользователя только администратору",
			method:     http.MethodPut,
			path:       "/api/v1/users/2",
			roles:      []string{models.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "баланс счёта доступен любой личности",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/1/balance",
			roles:      []string{models.RoleUser},
			wantStatus: http.StatusOK,
		},
		{
			name:       "список пользователей закрыт для ROLE_USER",
			method:     http.MethodGet,
			path:       "/api/v1/users",
			roles:      []string{models.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "поиск по email открыт без токена",
			method:     http.MethodGet,
			path:       "/api/v1/users/by-email",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := requestWithRoles(t, tt.method, tt.path, tt.roles)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
