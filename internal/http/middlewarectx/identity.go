// Package middlewarectx содержит HTTP middleware: извлечение личности
// из JWT, проверку прав доступа по таблице правил и ограничение частоты
// запросов.
//
// IdentityMiddleware разбирает JWT из заголовка Authorization и кладёт
// идентификатор пользователя и роли в контекст запроса. Middleware
// намеренно не отклоняет запросы: отсутствующий или дефектный токен
// оставляет запрос неаутентифицированным, а решение о доступе принимает
// AccessMiddleware по таблице правил.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/tudai-mobility/monopatines/internal/lib/jwt"
	"github.com/tudai-mobility/monopatines/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ идентификатора пользователя в контексте.
	UserID Key = "user_id"
	// Roles — ключ списка ролей пользователя в контексте.
	Roles Key = "roles"
)

// TokenParser описывает разбор и проверку JWT.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserIDFromContext возвращает идентификатор пользователя из контекста.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserID).(int64)
	return id, ok
}

// RolesFromContext возвращает роли пользователя из контекста.
func RolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(Roles).([]string)
	return roles, ok
}

// IdentityMiddleware возвращает HTTP middleware, который разбирает JWT
// из заголовка Authorization и связывает личность с контекстом запроса.
//
// Любой дефект токена логируется и запрос продолжается без личности.
func IdentityMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.IdentityMiddleware"

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Warn("invalid token, request continues unauthenticated", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				log.Warn("malformed subject claim, request continues unauthenticated", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserID, userID)
			ctx = context.WithValue(ctx, Roles, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
