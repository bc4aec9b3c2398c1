// Package create реализует HTTP-обработчик создания комментариев.
package create

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
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
)

// Request — структура входных данных для комментария.
type Request struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// Handler управляет HTTP-запросами на создание комментариев.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики сообщества
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания комментария.
type Service interface {
	CreateComment(ctx context.Context, postID int, authorUID, authorName, content string) (int, error)
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
// @Summary Создать комментарий
// @Description Создает комментарий к посту от имени текущего пользователя.
// @Tags Comments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID поста"
// @Param request body Request true "Текст комментария"
// @Success 200 {object} map[string]any "Успешное создание комментария"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или запрещенная лексика"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/{id}/comments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.create"
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

	var req Request
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

	id, err := h.service.CreateComment(r.Context(), postID, session.User.ID, session.User.Name, req.Content)
	if err != nil {
		var profErr *communityservice.ProfanityError
		switch {
		case errors.As(err, &profErr):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("부적절한 표현이 포함되어 있습니다: "+profErr.Word))
		case errors.Is(err, communityservice.ErrPostNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("게시글을 찾을 수 없습니다"))
		default:
			log.Error("failed to create comment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create comment"))
		}
		return
	}

	log.Info("comment created", slog.Int("id", id), slog.Int("post_id", postID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
