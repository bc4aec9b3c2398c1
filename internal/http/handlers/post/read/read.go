// Package read реализует HTTP-обработчик чтения одного поста.
//
// Чтение учитывает просмотр текущего пользователя: счётчик растет
// не чаще одного раза за период дедупликации.
package read

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
	"github.com/minwoojang/husband-er/internal/models"
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
)

// Handler управляет HTTP-запросами на чтение поста.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сообщества
}

// Service описывает интерфейс бизнес-логики чтения поста.
type Service interface {
	GetPost(ctx context.Context, id int, viewerUID string) (*models.Post, error)
	ListComments(ctx context.Context, postID, limit, offset int) ([]*models.Comment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Прочитать пост
// @Description Возвращает пост вместе с первой страницей комментариев и учитывает просмотр.
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID поста"
// @Success 200 {object} map[string]any "Пост с комментариями"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.read"
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

	viewerUID := ""
	if session, ok := middlewarectx.SessionFromContext(r.Context()); ok && session.User != nil {
		viewerUID = session.User.ID
	}

	post, err := h.service.GetPost(r.Context(), id, viewerUID)
	if errors.Is(err, communityservice.ErrPostNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("게시글을 찾을 수 없습니다"))
		return
	}
	if err != nil {
		log.Error("failed to read post", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read post"))
		return
	}

	comments, err := h.service.ListComments(r.Context(), id, 50, 0)
	if err != nil {
		log.Error("failed to list comments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read post"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"post":     post,
		"comments": comments,
	}))
}
