// Package remove реализует HTTP-обработчик удаления комментария.
// Удалять комментарий может его автор или администратор.
package remove

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

// Handler управляет HTTP-запросами на удаление комментариев.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сообщества
}

// Service описывает интерфейс бизнес-логики удаления комментария.
type Service interface {
	RemoveComment(ctx context.Context, id int, actorUID, actorRole string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить комментарий
// @Description Удаляет комментарий. Доступно автору и администратору.
// @Tags Comments
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID комментария"
// @Success 200 {object} response.Response "Комментарий удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Нет прав на удаление"
// @Failure 404 {object} response.ErrorResponse "Комментарий не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /comments/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.remove"
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

	err = h.service.RemoveComment(r.Context(), id, session.User.ID, session.User.Role)
	switch {
	case errors.Is(err, communityservice.ErrCommentNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("댓글을 찾을 수 없습니다"))
		return
	case errors.Is(err, communityservice.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("삭제 권한이 없습니다"))
		return
	case err != nil:
		log.Error("failed to remove comment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove comment"))
		return
	}

	log.Info("comment removed", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
