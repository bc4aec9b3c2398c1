// Package logout реализует HTTP-обработчик выхода из сессии.
//
// Токен остается криптографически валидным до истечения TTL, поэтому
// его идентификатор помещается в denylist на оставшееся время жизни.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
)

// Denylist описывает интерфейс отзыва токенов.
type Denylist interface {
	DenyToken(ctx context.Context, tokenID string, ttl time.Duration) error
}

// Handler обрабатывает запросы выхода из сессии.
type Handler struct {
	log      *slog.Logger  // Логгер для записи операций и ошибок
	denylist Denylist      // Хранилище отозванных токенов
	tokenTTL time.Duration // Время жизни токена, верхняя граница записи в denylist
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, denylist Denylist, tokenTTL time.Duration) *Handler {
	return &Handler{log: log, denylist: denylist, tokenTTL: tokenTTL}
}

// ServeHTTP godoc
// @Summary Выход из сессии
// @Description Отзывает текущий токен до истечения его срока действия.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Выход выполнен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok || session.TokenID == "" {
		log.Error("session missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.denylist.DenyToken(r.Context(), session.TokenID, h.tokenTTL); err != nil {
		log.Error("failed to deny token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("session revoked", sl.Subject(session.User.ID))
	render.JSON(w, r, response.OK())
}
