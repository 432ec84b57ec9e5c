// Package disassociate реализует HTTP-обработчик удаления связи
// счёт-пользователь. Удаление несуществующей связи — 404, не no-op.
package disassociate

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

// Handler обрабатывает запросы на удаление связи счёт-пользователь.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики разрыва связи.
type Service interface {
	Disassociate(ctx context.Context, accountID, userID int64) (*models.AccountUser, error)
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
// @Summary Разорвать связь пользователя со счётом
// @Tags AccountUsers
// @Accept  json
// @Produce  json
// @Param request body models.DummyAccountUser true "Пара счёт-пользователь"
// @Success 200 {object} map[string]any "Удалённая связь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Связь, счёт или пользователь не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /account-users [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accountuser.disassociate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAccountUser
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

	au, err := h.service.Disassociate(r.Context(), req.AccountID, req.UserID)
	if err != nil {
		log.Error("failed to disassociate user from account", sl.Err(err))
		response.RenderError(w, r, err, "could not disassociate user from account")
		return
	}

	log.Info("success to disassociate user from account",
		slog.Int64("account_id", au.AccountID), slog.Int64("user_id", au.UserID))
	render.JSON(w, r, response.StatusOKWithData(au))
}
