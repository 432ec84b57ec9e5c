// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tudai-mobility/monopatines/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — тело ошибки на границе сервиса: момент возникновения,
// числовой статус, категория и сообщение.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp" example:"2026-08-28T12:00:00Z"`
	Status    int       `json:"status" example:"400"`
	Error     string    `json:"error" example:"Bad Request"`
	Message   string    `json:"message" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает тело ошибки для переданного статус-кода и сообщения.
// Категория берётся из стандартного текста статуса.
func Error(status int, msg string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   msg,
	}
}

// HTTPStatus переводит ошибку бизнес-уровня в HTTP статус-код через
// errors.Is. Неизвестные ошибки дают 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrAssociationNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAccountAlreadyExists),
		errors.Is(err, models.ErrUserAlreadyExists),
		errors.Is(err, models.ErrAssociationAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrAccountInactive),
		errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrUnknownRole):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Describe возвращает текст известной ошибки бизнес-уровня.
// Для неизвестных ошибок возвращает нейтральное сообщение, чтобы не
// раскрывать внутренние детали.
func Describe(err error) string {
	sentinels := []error{
		models.ErrAccountNotFound,
		models.ErrUserNotFound,
		models.ErrAssociationNotFound,
		models.ErrAccountAlreadyExists,
		models.ErrUserAlreadyExists,
		models.ErrAssociationAlreadyExists,
		models.ErrAccountInactive,
		models.ErrInsufficientBalance,
		models.ErrInvalidCredentials,
		models.ErrUnknownRole,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

// RenderError пишет статус-код по таксономии ошибки и JSON-ответ с её
// описанием. Для внутренних ошибок наружу уходит fallback, а не текст err.
func RenderError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := HTTPStatus(err)
	msg := fallback
	if status != http.StatusInternalServerError {
		msg = Describe(err)
	}
	w.WriteHeader(status)
	render.JSON(w, r, Error(status, msg))
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than or equal to %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
