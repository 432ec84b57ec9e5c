package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tudai-mobility/monopatines/internal/http/response"
)

// Rule описывает право доступа к группе маршрутов. Пустой Method
// означает любой метод. Пустой список Roles с PermitAll=false требует
// любой аутентифицированной личности.
type Rule struct {
	Method    string   // HTTP-метод, "" — любой
	Pattern   string   // шаблон пути, сегменты {x} и хвост /* — подстановочные
	PermitAll bool     // доступ без аутентификации
	Roles     []string // допустимые роли; пусто — достаточно аутентификации
}

// AccessMiddleware возвращает HTTP middleware, который принимает решение
// о доступе по таблице правил. Правила проверяются по порядку, действует
// первое совпавшее; запрос вне таблицы требует аутентификации.
//
// Запрос без личности на закрытом маршруте получает 401, запрос с
// личностью без нужной роли — 403.
func AccessMiddleware(rules []Rule, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AccessMiddleware"

			rule := matchRule(rules, r.Method, r.URL.Path)
			if rule != nil && rule.PermitAll {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			roles, authenticated := RolesFromContext(r.Context())
			if !authenticated {
				log.Warn("unauthenticated request to protected route",
					slog.String("method", r.Method), slog.String("path", r.URL.Path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(http.StatusUnauthorized, "authentication required"))
				return
			}

			if rule == nil || len(rule.Roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			if !hasAnyRole(roles, rule.Roles) {
				log.Warn("insufficient role for route",
					slog.String("method", r.Method), slog.String("path", r.URL.Path),
					slog.Any("roles", roles))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(http.StatusForbidden, "access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchRule(rules []Rule, method, path string) *Rule {
	for i := range rules {
		rule := &rules[i]
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return rule
		}
	}
	return nil
}

// matchPattern сопоставляет путь с шаблоном посегментно: сегмент вида
// {x} совпадает с любым одним сегментом, хвост /* — с любым остатком.
func matchPattern(pattern, path string) bool {
	if rest, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == rest || strings.HasPrefix(path, rest+"/")
	}

	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(patSegs) != len(pathSegs) {
		return false
	}
	for i, seg := range patSegs {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}

func hasAnyRole(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
