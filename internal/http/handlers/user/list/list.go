// Package list реализует HTTP-обработчик получения списка пользователей.
//
// С query-параметром email возвращает одного пользователя с ролями:
// этим вариантом пользуется auth-service при входе.
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

// Handler обрабатывает запросы на получение пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователей
// @Description Возвращает всех пользователей либо одного по query-параметру email.
// @Tags Users
// @Produce  json
// @Param email query string false "Email пользователя"
// @Success 200 {object} map[string]any "Пользователи"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if email := r.URL.Query().Get("email"); email != "" {
		user, err := h.service.GetByEmail(r.Context(), email)
		if err != nil {
			log.Error("failed to read user by email", sl.Err(err))
			response.RenderError(w, r, err, "could not read user")
			return
		}
		log.Info("success to read user by email", slog.Int64("id", user.ID))
		render.JSON(w, r, response.StatusOKWithData(user))
		return
	}

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.RenderError(w, r, err, "could not list users")
		return
	}

	log.Info("success to list users", slog.Int("count", len(users)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": users,
	}))
}
