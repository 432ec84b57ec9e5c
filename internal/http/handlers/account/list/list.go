// Package list реализует HTTP-обработчик для получения списка всех счетов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tudai-mobility/monopatines/internal/http/response"
	"github.com/tudai-mobility/monopatines/internal/lib/sl"
	"github.com/tudai-mobility/monopatines/internal/models"
)

// Handler обрабатывает запросы на получение списка счетов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка счетов.
type Service interface {
	List(ctx context.Context) ([]*models.Account, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить все счета
// @Tags Accounts
// @Produce  json
// @Success 200 {object} map[string]any "Список счетов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accounts, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		response.RenderError(w, r, err, "could not list accounts")
		return
	}

	log.Info("success to list accounts", slog.Int("count", len(accounts)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"accounts": accounts,
	}))
}
