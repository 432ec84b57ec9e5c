// Package toggle реализует HTTP-обработчик переключения статуса счёта.
//
// Активный счёт аннулируется, аннулированный — восстанавливается.
// Баланс при переключении сохраняется.
package toggle

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
	"github.com/tudai-mobility/monopatines/internal/models"
)

// Handler обрабатывает запросы на переключение статуса счёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики переключения статуса.
type Service interface {
	ToggleStatus(ctx context.Context, id int64) (*models.Account, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить статус счёта
// @Description Аннулирует активный счёт или восстанавливает аннулированный. Баланс сохраняется.
// @Tags Accounts
// @Produce  json
// @Param id path int true "ID счёта"
// @Success 200 {object} map[string]any "Обновлённый счёт"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/toggle-status [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.toggle"

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

	account, err := h.service.ToggleStatus(r.Context(), id)
	if err != nil {
		log.Error("failed to toggle account status", sl.Err(err))
		response.RenderError(w, r, err, "could not toggle account status")
		return
	}

	log.Info("success to toggle account status",
		slog.Int64("id", account.ID), slog.Bool("active", account.Active))
	render.JSON(w, r, response.StatusOKWithData(account))
}
