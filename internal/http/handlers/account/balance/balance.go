// Package balance реализует HTTP-обработчик получения текущего баланса счёта.
// Баланс всегда читается из хранилища, минуя кеш.
package balance

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
)

// Handler обрабатывает запросы на получение баланса счёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения баланса.
type Service interface {
	GetBalance(ctx context.Context, id int64) (float64, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить баланс счёта
// @Tags Accounts
// @Produce  json
// @Param id path int true "ID счёта"
// @Success 200 {object} map[string]any "Текущий баланс"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/balance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.balance"

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

	balance, err := h.service.GetBalance(r.Context(), id)
	if err != nil {
		log.Error("failed to get balance", sl.Err(err))
		response.RenderError(w, r, err, "could not get balance")
		return
	}

	log.Info("success to get balance", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"account_id": id,
		"balance":    balance,
	}))
}
