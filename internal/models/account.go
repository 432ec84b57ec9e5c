// Package models содержит доменные структуры системы: счета, пользователи,
// роли и связи между счетами и пользователями, а также вспомогательные
// типы для приёма данных из JSON-запросов.
package models

import "time"

// Account представляет счёт сервиса проката монопатинов.
// Счёт привязан к внешнему платёжному аккаунту и может иметь несколько
// связанных пользователей, расходующих загруженные на счёт кредиты.
type Account struct {
	ID                   int64      `json:"id"`                    // Уникальный идентификатор счёта
	IdentificationNumber string     `json:"identification_number"` // Идентификационный номер счёта (уникальный)
	PaymentAccountID     string     `json:"payment_account_id"`    // Внешний платёжный аккаунт (может повторяться между счетами)
	CurrentBalance       float64    `json:"current_balance"`       // Текущий баланс кредитов, всегда >= 0
	Active               bool       `json:"active"`                // Признак активности счёта
	CreatedAt            time.Time  `json:"created_at"`            // Дата создания счёта
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"` // Дата аннулирования, nil пока счёт активен
}

// DummyAccount используется для приёма данных из JSON-запроса
// при создании и обновлении счёта.
type DummyAccount struct {
	IdentificationNumber string   `json:"identification_number" validate:"required"` // Идентификационный номер
	PaymentAccountID     string   `json:"payment_account_id" validate:"required"`    // Платёжный аккаунт
	CurrentBalance       *float64 `json:"current_balance" validate:"omitempty,gte=0"` // Начальный баланс, по умолчанию 0
}
