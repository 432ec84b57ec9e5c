package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64     `json:"id"`           // Уникальный идентификатор пользователя
	FirstName    string    `json:"first_name"`   // Имя
	LastName     string    `json:"last_name"`    // Фамилия
	Email        string    `json:"email"`        // Электронная почта (уникальная)
	PhoneNumber  string    `json:"phone_number"` // Номер телефона
	PasswordHash string    `json:"-"`            // Хэш пароля, наружу не сериализуется
	Roles        []string  `json:"roles"`        // Имена ролей, назначенных пользователю
	CreatedAt    time.Time `json:"created_at"`   // Дата регистрации
}

// DummyUser используется для приёма данных из JSON-запроса
// при создании и обновлении пользователя. Пароль приходит уже в виде
// bcrypt-хэша: хэширование выполняет auth-service до передачи сюда.
type DummyUser struct {
	FirstName    string `json:"first_name" validate:"required"`    // Имя
	LastName     string `json:"last_name" validate:"required"`     // Фамилия
	Email        string `json:"email" validate:"required,email"`   // Электронная почта
	PhoneNumber  string `json:"phone_number" validate:"required"`  // Номер телефона
	PasswordHash string `json:"password_hash" validate:"required"` // bcrypt-хэш пароля
}
