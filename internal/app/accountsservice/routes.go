package accountsservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	accountactive "github.com/tudai-mobility/monopatines/internal/http/handlers/account/active"
	accountbalance "github.com/tudai-mobility/monopatines/internal/http/handlers/account/balance"
	accountcreate "github.com/tudai-mobility/monopatines/internal/http/handlers/account/create"
	accountdeduct "github.com/tudai-mobility/monopatines/internal/http/handlers/account/deduct"
	accountlist "github.com/tudai-mobility/monopatines/internal/http/handlers/account/list"
	accountload "github.com/tudai-mobility/monopatines/internal/http/handlers/account/load"
	accountread "github.com/tudai-mobility/monopatines/internal/http/handlers/account/read"
	accountremove "github.com/tudai-mobility/monopatines/internal/http/handlers/account/remove"
	accountstatus "github.com/tudai-mobility/monopatines/internal/http/handlers/account/status"
	accounttoggle "github.com/tudai-mobility/monopatines/internal/http/handlers/account/toggle"
	accountupdate "github.com/tudai-mobility/monopatines/internal/http/handlers/account/update"
	accountusers "github.com/tudai-mobility/monopatines/internal/http/handlers/account/users"
	"github.com/tudai-mobility/monopatines/internal/http/handlers/accountuser/associate"
	"github.com/tudai-mobility/monopatines/internal/http/handlers/accountuser/disassociate"
	"github.com/tudai-mobility/monopatines/internal/http/handlers/health"
	useraccounts "github.com/tudai-mobility/monopatines/internal/http/handlers/user/accounts"
	usercreate "github.com/tudai-mobility/monopatines/internal/http/handlers/user/create"
	userlist "github.com/tudai-mobility/monopatines/internal/http/handlers/user/list"
	userread "github.com/tudai-mobility/monopatines/internal/http/handlers/user/read"
	userremove "github.com/tudai-mobility/monopatines/internal/http/handlers/user/remove"
	userupdate "github.com/tudai-mobility/monopatines/internal/http/handlers/user/update"
	"github.com/tudai-mobility/monopatines/internal/http/handlers/user/validatepassword"
	"github.com/tudai-mobility/monopatines/internal/http/middlewarectx"
	"github.com/tudai-mobility/monopatines/internal/models"
	accountservice "github.com/tudai-mobility/monopatines/internal/services/account"
	accountuserservice "github.com/tudai-mobility/monopatines/internal/services/accountuser"
	userservice "github.com/tudai-mobility/monopatines/internal/services/user"
)

// accessRules таблица прав доступа сервиса счетов. Правила проверяются
// по порядку, действует первое совпавшее; маршрут вне таблицы требует
// аутентификации.
//
// Эндпоинты пользователей для auth-service открыты: auth-service
// обращается к ним до того, как у пользователя появляется токен.
func accessRules() []middlewarectx.Rule {
	return []middlewarectx.Rule{
		{Pattern: "/health", PermitAll: true},
		{Pattern: "/metrics", PermitAll: true},
		{Pattern: "/docs/*", PermitAll: true},
		{Method: http.MethodPost, Pattern: "/api/v1/users", PermitAll: true},
		{Method: http.MethodGet, Pattern: "/api/v1/users/by-email", PermitAll: true},
		{Method: http.MethodPost, Pattern: "/api/v1/users/validate-password", PermitAll: true},

		{Method: http.MethodGet, Pattern: "/api/v1/users", Roles: []string{models.RoleEmployee, models.RoleAdmin}},

		{Method: http.MethodPost, Pattern: "/api/v1/accounts", Roles: []string{models.RoleAdmin}},
		{Method: http.MethodGet, Pattern: "/api/v1/accounts", Roles: []string{models.RoleEmployee, models.RoleAdmin}},
		{Method: http.MethodGet, Pattern: "/api/v1/accounts/active", Roles: []string{models.RoleEmployee, models.RoleAdmin}},
		{Method: http.MethodPut, Pattern: "/api/v1/accounts/{id}", Roles: []string{models.RoleAdmin}},
		{Method: http.MethodDelete, Pattern: "/api/v1/accounts/{id}", Roles: []string{models.RoleAdmin}},
		{Method: http.MethodPost, Pattern: "/api/v1/accounts/{id}/toggle-status", Roles: []string{models.RoleAdmin}},
		{Method: http.MethodPost, Pattern: "/api/v1/accounts/{id}/load", Roles: []string{models.RoleUser, models.RoleAdmin}},
		{Method: http.MethodPost, Pattern: "/api/v1/accounts/{id}/deduct", Roles: []string{models.RoleAdmin}},
		{Method: http.MethodGet, Pattern: "/api/v1/accounts/{id}/status", Roles: []string{models.RoleEmployee, models.RoleAdmin}},
		{Method: http.MethodGet, Pattern: "/api/v1/accounts/{id}/users", Roles: []string{models.RoleEmployee, models.RoleAdmin}},

		{Method: http.MethodPut, Pattern: "/api/v1/users/{id}", Roles: []string{models.RoleAdmin}},
		{Method: http.MethodDelete, Pattern: "/api/v1/users/{id}", Roles: []string{models.RoleAdmin}},

		{Method: http.MethodPost, Pattern: "/api/v1/account-users", Roles: []string{models.RoleAdmin}},
		{Method: http.MethodDelete, Pattern: "/api/v1/account-users", Roles: []string{models.RoleAdmin}},
	}
}

// RegisterRoutes регистрирует все маршруты сервиса счетов.
func RegisterRoutes(r chi.Router, logger *slog.Logger, parser middlewarectx.TokenParser,
	accountService *accountservice.AccountService,
	userService *userservice.UserService,
	accountUserService *accountuserservice.AccountUserService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.IdentityMiddleware(parser, logger))
	r.Use(middlewarectx.AccessMiddleware(accessRules(), logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/accounts", accountcreate.New(logger, accountService).ServeHTTP)
		r.Get("/accounts", accountlist.New(logger, accountService).ServeHTTP)
		r.Get("/accounts/active", accountactive.New(logger, accountService).ServeHTTP)
		r.Get("/accounts/{id}", accountread.New(logger, accountService).ServeHTTP)
		r.Put("/accounts/{id}", accountupdate.New(logger, accountService).ServeHTTP)
		r.Delete("/accounts/{id}", accountremove.New(logger, accountService).ServeHTTP)
		r.Post("/accounts/{id}/load", accountload.New(logger, accountService).ServeHTTP)
		r.Post("/accounts/{id}/deduct", accountdeduct.New(logger, accountService).ServeHTTP)
		r.Post("/accounts/{id}/toggle-status", accounttoggle.New(logger, accountService).ServeHTTP)
		r.Get("/accounts/{id}/balance", accountbalance.New(logger, accountService).ServeHTTP)
		r.Get("/accounts/{id}/status", accountstatus.New(logger, accountService).ServeHTTP)
		r.Get("/accounts/{id}/users", accountusers.New(logger, accountUserService).ServeHTTP)

		r.Post("/users", usercreate.New(logger, userService).ServeHTTP)
		r.Get("/users", userlist.New(logger, userService).ServeHTTP)
		r.Get("/users/by-email", userlist.New(logger, userService).ServeHTTP)
		r.Post("/users/validate-password", validatepassword.New(logger, userService).ServeHTTP)
		r.Get("/users/{id}", userread.New(logger, userService).ServeHTTP)
		r.Put("/users/{id}", userupdate.New(logger, userService).ServeHTTP)
		r.Delete("/users/{id}", userremove.New(logger, userService).ServeHTTP)
		r.Get("/users/{id}/accounts", useraccounts.New(logger, accountUserService).ServeHTTP)

		r.Post("/account-users", associate.New(logger, accountUserService).ServeHTTP)
		r.Delete("/account-users", disassociate.New(logger, accountUserService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
