// Package like реализует HTTP-обработчики лайков.
//
// PUT ставит лайк, DELETE снимает. Повторные запросы идемпотентны:
// уже лайкнутый пост не получает второй лайк, ответ сообщает флагом
// changed, изменилось ли состояние.
package like

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
)

// Handler управляет HTTP-запросами лайков.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сообщества
	like    bool         // true — поставить лайк, false — снять
}

// Service описывает интерфейс бизнес-логики лайков.
type Service interface {
	ToggleLike(ctx context.Context, postID int, userUID string, like bool) (bool, error)
}

// New создает Handler, ставящий лайк.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, like: true}
}

// NewRemove создает Handler, снимающий лайк.
func NewRemove(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, like: false}
}

// ServeHTTP godoc
// @Summary Поставить или снять лайк
// @Description Идемпотентно меняет состояние лайка текущего пользователя на посте.
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID поста"
// @Success 200 {object} map[string]any "Флаг changed"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/{id}/like [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.like"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	session, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok || session.User == nil {
		log.Error("session missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	changed, err := h.service.ToggleLike(r.Context(), id, session.User.ID, h.like)
	if errors.Is(err, communityservice.ErrPostNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("게시글을 찾을 수 없습니다"))
		return
	}
	if err != nil {
		log.Error("failed to toggle like", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle like"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"changed": changed,
	}))
}
