package authservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tudai-mobility/monopatines/internal/http/handlers/auth/login"
	"github.com/tudai-mobility/monopatines/internal/http/handlers/auth/register"
	"github.com/tudai-mobility/monopatines/internal/http/handlers/health"
	"github.com/tudai-mobility/monopatines/internal/http/middlewarectx"
	authservice "github.com/tudai-mobility/monopatines/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты сервиса аутентификации.
// Оба эндпоинта открыты: токена до входа нет.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.RateLimitMiddleware(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
