// Package list реализует HTTP-обработчик списка постов с пагинацией
// и фильтром по категории.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler управляет HTTP-запросами на список постов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сообщества
}

// Service описывает интерфейс бизнес-логики списка постов.
type Service interface {
	ListPosts(ctx context.Context, category string, limit, offset int) ([]*models.Post, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список постов
// @Description Возвращает страницу постов, новые сверху. Пустая категория означает все категории.
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param category query string false "Категория: free, urgent, question, secret"
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список постов"
// @Failure 422 {object} response.ErrorResponse "Неизвестная категория"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	category := r.URL.Query().Get("category")
	limit, offset := pagination(r)

	posts, err := h.service.ListPosts(r.Context(), category, limit, offset)
	if errors.Is(err, communityservice.ErrInvalidCategory) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("알 수 없는 카테고리입니다"))
		return
	}
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list posts"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	}))
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
