// Package jwt реализует выпуск и проверку JWT токенов с пользовательскими
// claim полями.
//
// CustomClaims расширяет стандартные claims JWT, добавляя список ролей
// пользователя; идентификатор пользователя хранится в стандартном поле sub.
//
// Maker определяет интерфейс выпуска и проверки токена, MakerImpl —
// реализация на секретном ключе и фиксированном времени жизни.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает данные, хранящиеся в JWT.
type CustomClaims struct {
	Roles                []string `json:"roles"` // Роли пользователя
	jwt.RegisteredClaims          // Встроенные стандартные claims JWT (Subject, ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для выпуска и проверки JWT токенов.
//
// Токен самодостаточен: проверка не требует обращения к хранилищу сессий
// и выполняется локально в каждом сервисе.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с заданным набором ролей.
	GenerateToken(userID int64, roles []string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов
	tokenTTL  time.Duration // Время жизни токена
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
//
// Ключ передаётся явно, а не читается из глобального состояния: в тестах
// каждому экземпляру можно дать собственный секрет.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
