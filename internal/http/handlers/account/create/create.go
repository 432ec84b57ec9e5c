// Package create реализует HTTP-обработчик для создания новых счетов.
//
// Handler принимает JSON-запрос с данными счёта, валидирует их,
// вызывает бизнес-логику создания счёта и возвращает созданный счёт
// в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tudai-mobility/monopatines/internal/http/response"
	"github.com/tudai-mobility/monopatines/internal/lib/sl"
	"github.com/tudai-mobility/monopatines/internal/models"
)

// Handler управляет HTTP-запросами на создание новых счетов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики счетов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания счёта.
type Service interface {
	Create(ctx context.Context, req models.DummyAccount) (*models.Account, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новый счёт
// @Description Создает новый активный счёт. Начальный баланс по умолчанию 0.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param request body models.DummyAccount true "Данные нового счёта"
// @Success 201 {object} map[string]any "Успешное создание счёта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Счёт уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании счёта"
// @Router /accounts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(http.StatusBadRequest, "invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	account, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create account", sl.Err(err))
		response.RenderError(w, r, err, "could not create account")
		return
	}

	log.Info("success to create account", slog.Int64("id", account.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(account))
}
