// Package middlewarectx содержит HTTP middleware для проверки JWT токенов
// и защиты маршрутов по роли и статусу пользователя.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization, сверяет его с denylist отозванных токенов и кладет
// типизированную сессию в контекст запроса.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/jwt"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
	authservice "github.com/minwoojang/husband-er/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey — ключ для типизированной сессии в контексте.
const SessionKey Key = "session"

// AuthService описывает интерфейс сервиса для валидации JWT токена.
type AuthService interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// Denylist описывает интерфейс проверки отозванных токенов.
type Denylist interface {
	TokenDenied(ctx context.Context, tokenID string) (bool, error)
}

// SessionFromContext возвращает сессию, сохранённую JWTMiddleware.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(SessionKey).(models.Session)
	return session, ok
}

// ResolveSession разбирает заголовок Authorization в сессию.
// Отсутствие или невалидность токена дает неаутентифицированную сессию.
func ResolveSession(ctx context.Context, authHeader string, auth AuthService, denylist Denylist) models.Session {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Unauthenticated()
	}
	claims, err := auth.ValidateToken(ctx, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return models.Unauthenticated()
	}
	if denied, err := denylist.TokenDenied(ctx, claims.ID); err != nil || denied {
		return models.Unauthenticated()
	}
	return authservice.ProjectToSession(claims)
}

// unauthorized отвечает 401 с адресом страницы входа, на которую клиент
// должен перенаправить пользователя.
func unauthorized(w http.ResponseWriter, r *http.Request, msg, loginPage string) {
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, response.Response{
		Status: response.StatusError,
		Error:  msg,
		Data:   map[string]string{"login": loginPage},
	})
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден и не отозван, кладет сессию в контекст запроса,
// иначе возвращает 401 Unauthorized с адресом страницы входа.
func JWTMiddleware(auth AuthService, denylist Denylist, log *slog.Logger, loginPage string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				unauthorized(w, r, "missing or invalid authorization header", loginPage)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := auth.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				unauthorized(w, r, "invalid or expired token", loginPage)
				return
			}

			denied, err := denylist.TokenDenied(r.Context(), claims.ID)
			if err != nil {
				log.Error("failed to check token denylist", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if denied {
				log.Warn("revoked token used", sl.Subject(claims.UserUID))
				unauthorized(w, r, "token has been revoked", loginPage)
				return
			}

			session := authservice.ProjectToSession(claims)
			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
