// Package validatepassword реализует внутренний HTTP-обработчик проверки
// пары email/пароль для auth-service.
//
// Ответ не различает отсутствие пользователя и неверный пароль: в обоих
// случаях возвращается valid=false с кодом 200.
package validatepassword

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
)

// Request — пара email/пароль для проверки.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает запросы на проверку пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики проверки пароля.
type Service interface {
	ValidatePassword(ctx context.Context, email, plainPassword string) (bool, error)
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
// @Summary Проверить пару email/пароль
// @Description Внутренний эндпоинт для auth-service. valid=false не различает отсутствие пользователя и неверный пароль.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} map[string]any "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/validate-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.validatepassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	valid, err := h.service.ValidatePassword(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("failed to validate password", sl.Err(err))
		response.RenderError(w, r, err, "could not validate password")
		return
	}

	log.Info("password validation completed", slog.String("email", req.Email), slog.Bool("valid", valid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"valid": valid,
	}))
}
