// Package users реализует HTTP-обработчик получения пользователей,
// связанных со счётом. Пустой список — успех с информационным
// сообщением, не ошибка.
package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tudai-mobility/monopatines/internal/http/response"
	"github.com/tudai-mobility/monopatines/internal/lib/sl"
	services "github.com/tudai-mobility/monopatines/internal/services/accountuser"
)

// Handler обрабатывает запросы на получение пользователей счёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики связей счёт-пользователь.
type Service interface {
	UsersByAccount(ctx context.Context, accountID int64) (*services.UsersByAccount, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователей счёта
// @Description Возвращает пользователей, связанных со счётом, вместе с их ролями.
// @Tags Accounts
// @Produce  json
// @Param id path int true "ID счёта"
// @Success 200 {object} map[string]any "Пользователи счёта"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.users"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(http.StatusBadRequest, "failed to decode id from url"))
		return
	}

	result, err := h.service.UsersByAccount(r.Context(), id)
	if err != nil {
		log.Error("failed to list users by account", sl.Err(err))
		response.RenderError(w, r, err, "could not list users by account")
		return
	}

	log.Info("success to list users by account",
		slog.Int64("account_id", id), slog.Int("count", len(result.Users)))
	render.JSON(w, r, response.StatusOKWithData(result))
}
