// Package accounts реализует HTTP-обработчик получения счетов,
// связанных с пользователем.
package accounts

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

// Handler обрабатывает запросы на получение счетов пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики связей счёт-пользователь.
type Service interface {
	AccountsByUser(ctx context.Context, userID int64) (*services.AccountsByUser, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить счета пользователя
// @Description Возвращает счета, кредиты которых может расходовать пользователь.
// @Tags Users
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} map[string]any "Счета пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{id}/accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.accounts"

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

	result, err := h.service.AccountsByUser(r.Context(), id)
	if err != nil {
		log.Error("failed to list accounts by user", sl.Err(err))
		response.RenderError(w, r, err, "could not list accounts by user")
		return
	}

	log.Info("success to list accounts by user",
		slog.Int64("user_id", id), slog.Int("count", len(result.Accounts)))
	render.JSON(w, r, response.StatusOKWithData(result))
}
