package models

import "time"

// AccountUser представляет связь many-to-many между счётом и пользователем.
// Связанный пользователь получает право расходовать кредиты счёта.
// Пара (счёт, пользователь) уникальна.
type AccountUser struct {
	AccountID    int64     `json:"account_id"`    // Идентификатор счёта
	UserID       int64     `json:"user_id"`       // Идентификатор пользователя
	AssociatedAt time.Time `json:"associated_at"` // Момент создания связи
}

// DummyAccountUser используется для приёма данных из JSON-запроса
// на создание и удаление связи счёт-пользователь.
type DummyAccountUser struct {
	AccountID int64 `json:"account_id" validate:"required,gt=0"` // Идентификатор счёта
	UserID    int64 `json:"user_id" validate:"required,gt=0"`    // Идентификатор пользователя
}
