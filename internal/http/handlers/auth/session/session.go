// Package session реализует HTTP-обработчик чтения текущей сессии.
//
// Маршрут открытый: без токена или с невалидным токеном возвращается
// сессия со статусом unauthenticated, а не ошибка 401.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/http/response"
)

// Handler обрабатывает запросы чтения сессии.
type Handler struct {
	log      *slog.Logger              // Логгер для записи операций и ошибок
	auth     middlewarectx.AuthService // Валидатор токена
	denylist middlewarectx.Denylist    // Проверка отозванных токенов
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth middlewarectx.AuthService, denylist middlewarectx.Denylist) *Handler {
	return &Handler{log: log, auth: auth, denylist: denylist}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Description Возвращает типизированную сессию. Без валидного токена — статус unauthenticated.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Сессия"
// @Router /auth/session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := middlewarectx.ResolveSession(r.Context(), r.Header.Get("Authorization"), h.auth, h.denylist)
	render.JSON(w, r, response.OKWithData(session))
}
