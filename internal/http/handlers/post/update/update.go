// Package update реализует HTTP-обработчик изменения поста.
// Изменять пост может его автор или администратор.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
)

// Handler управляет HTTP-запросами на изменение поста.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики сообщества
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики изменения поста.
type Service interface {
	UpdatePost(ctx context.Context, id int, actorUID, actorRole string, req models.DummyPost) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить пост
// @Description Изменяет заголовок, текст и категорию поста. Доступно автору и администратору.
// @Tags Posts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID поста"
// @Param request body models.DummyPost true "Новые данные поста"
// @Success 200 {object} response.Response "Пост изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или запрещенная лексика"
// @Failure 403 {object} response.ErrorResponse "Нет прав на изменение"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.update"
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

	var req models.DummyPost
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok || session.User == nil {
		log.Error("session missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err = h.service.UpdatePost(r.Context(), id, session.User.ID, session.User.Role, req)
	if err != nil {
		var profErr *communityservice.ProfanityError
		switch {
		case errors.As(err, &profErr):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("부적절한 표현이 포함되어 있습니다: "+profErr.Word))
		case errors.Is(err, communityservice.ErrPostNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("게시글을 찾을 수 없습니다"))
		case errors.Is(err, communityservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("수정 권한이 없습니다"))
		case errors.Is(err, communityservice.ErrInvalidCategory):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("알 수 없는 카테고리입니다"))
		default:
			log.Error("failed to update post", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update post"))
		}
		return
	}

	log.Info("post updated", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
