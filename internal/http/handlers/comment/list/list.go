// Package list реализует HTTP-обработчик списка комментариев поста.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler управляет HTTP-запросами на список комментариев.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сообщества
}

// Service описывает интерфейс бизнес-логики списка комментариев.
type Service interface {
	ListComments(ctx context.Context, postID, limit, offset int) ([]*models.Comment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список комментариев
// @Description Возвращает страницу комментариев поста в порядке публикации.
// @Tags Comments
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID поста"
// @Param limit query int false "Размер страницы (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список комментариев"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/{id}/comments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	postID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	limit := defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	comments, err := h.service.ListComments(r.Context(), postID, limit, offset)
	if err != nil {
		log.Error("failed to list comments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list comments"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"comments": comments,
	}))
}
