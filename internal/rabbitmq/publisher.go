package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Типы событий счетов.
const (
	EventBalanceLoaded   = "balance_loaded"
	EventBalanceDeducted = "balance_deducted"
	EventStatusToggled   = "status_toggled"
)

// AccountEvent описывает событие изменения счёта, публикуемое
// для внешних потребителей (нотификации, аналитика).
type AccountEvent struct {
	Type       string    `json:"type"`        // balance_loaded, balance_deducted, status_toggled
	AccountID  int64     `json:"account_id"`  // Идентификатор счёта
	Amount     float64   `json:"amount"`      // Сумма операции, 0 для смены статуса
	Balance    float64   `json:"balance"`     // Баланс после операции
	Active     bool      `json:"active"`      // Состояние счёта после операции
	OccurredAt time.Time `json:"occurred_at"` // Момент операции
}

// Publisher публикует события счетов через канал AMQP.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishAccountEvent публикует событие счёта с ключом маршрутизации
// по типу события.
func (p *Publisher) PublishAccountEvent(event AccountEvent) error {
	routingKey := "balance"
	if event.Type == EventStatusToggled {
		routingKey = "status"
	}
	return PublishMessage(p.ch, Exchange, routingKey, event)
}

// PublishMessage публикует сообщение в обменник событий счетов.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
