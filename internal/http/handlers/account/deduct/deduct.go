// Package deduct реализует HTTP-обработчик списания с баланса счёта.
//
// Списание выполняется атомарно на уровне хранилища: баланс не может
// уйти в минус, аннулированный счёт не списывается.
package deduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tudai-mobility/monopatines/internal/http/response"
	"github.com/tudai-mobility/monopatines/internal/lib/sl"
)

// Request — сумма списания. Строго положительная.
type Request struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Handler обрабатывает запросы на списание с баланса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики списания с баланса.
type Service interface {
	Deduct(ctx context.Context, id int64, amount float64) (float64, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Списать с баланса счёта
// @Description Атомарно уменьшает баланс активного счёта на указанную сумму.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param id path int true "ID счёта"
// @Param request body Request true "Сумма списания"
// @Success 200 {object} map[string]any "Новый баланс"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос, недостаточно средств или счёт аннулирован"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/deduct [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.deduct"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(http.StatusBadRequest, "invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	balance, err := h.service.Deduct(r.Context(), id, req.Amount)
	if err != nil {
		log.Error("failed to deduct balance", sl.Err(err))
		response.RenderError(w, r, err, "could not deduct balance")
		return
	}

	log.Info("success to deduct balance", slog.Int64("id", id), slog.Float64("balance", balance))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"account_id": id,
		"balance":    balance,
	}))
}
