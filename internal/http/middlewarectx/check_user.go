package middlewarectx

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
	authservice "github.com/minwoojang/husband-er/internal/services/auth"
)

// StatusService определяет интерфейс для чтения текущего статуса пользователя.
type StatusService interface {
	GetUserStatus(ctx context.Context, userUID string) (string, error)
}

// BanGuardMiddleware создает middleware, которое сверяет статус пользователя
// с базой на каждом запросе. Токен, выданный до блокировки, перестает
// действовать сразу после неё.
//
// Сессия без записи в базе (временный вход при недоступном хранилище
// профилей несет naver id вместо uid) пропускается без проверки:
// заблокировать такую учетную запись негде.
func BanGuardMiddleware(log *slog.Logger, users StatusService, pages config.Pages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok || session.User == nil {
				log.Error("session missing in context")
				unauthorized(w, r, "unauthorized", pages.LoginPage)
				return
			}

			loginPage := pages.LoginPage
			if session.User.Role == models.RoleAdmin {
				loginPage = pages.AdminLoginPage
			}

			if uuid.Validate(session.User.ID) != nil {
				log.Warn("ephemeral session, skipping status check", sl.Subject(session.User.ID))
				next.ServeHTTP(w, r)
				return
			}

			status, err := users.GetUserStatus(r.Context(), session.User.ID)
			if errors.Is(err, sql.ErrNoRows) {
				log.Warn("session user no longer exists", sl.Subject(session.User.ID))
				unauthorized(w, r, "unauthorized", loginPage)
				return
			}
			if err != nil {
				log.Error("failed to get user status", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if status == models.StatusBanned {
				log.Warn("banned user rejected", sl.Subject(session.User.ID))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Response{
					Status: response.StatusError,
					Error:  "차단된 계정입니다",
					Code:   authservice.CodeBannedUser,
					Data:   map[string]string{"login": loginPage},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
