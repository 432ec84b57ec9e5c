// Package read реализует HTTP-обработчик для получения счёта по ID.
package read

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

// Handler обрабатывает запросы на получение счёта по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики счетов
}

// Service описывает интерфейс бизнес-логики чтения счёта.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Account, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить счёт по ID
// @Tags Accounts
// @Produce  json
// @Param id path int true "ID счёта"
// @Success 200 {object} map[string]any "Данные счёта"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.read"

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

	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read account", sl.Err(err))
		response.RenderError(w, r, err, "could not read account")
		return
	}

	log.Info("success to read account", slog.Int64("id", account.ID))
	render.JSON(w, r, response.StatusOKWithData(account))
}
