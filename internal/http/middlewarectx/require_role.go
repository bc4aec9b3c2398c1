package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/response"
)

// RequireRole возвращает middleware, пропускающий только пользователей
// с одной из перечисленных ролей. Ответ 403 содержит адрес страницы
// входа, на которую клиент должен перенаправить пользователя.
func RequireRole(log *slog.Logger, loginPage string, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok || session.User == nil {
				log.Error("session missing in context")
				unauthorized(w, r, "unauthorized", loginPage)
				return
			}

			if _, ok := allowed[session.User.Role]; !ok {
				log.Warn("access denied by role",
					slog.String("role", session.User.Role),
					slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Response{
					Status: response.StatusError,
					Error:  "권한이 없습니다",
					Data:   map[string]string{"login": loginPage},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
