// Package create реализует HTTP-обработчик создания постов.
//
// Handler принимает JSON-запрос с данными поста, валидирует их, извлекает
// автора из сессии в контексте, вызывает бизнес-логику создания поста
// и возвращает ID созданной записи в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
)

// Handler управляет HTTP-запросами на создание постов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики сообщества
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания поста.
type Service interface {
	CreatePost(ctx context.Context, authorUID, authorName string, req models.DummyPost) (int, error)
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
// @Summary Создать пост
// @Description Создает пост от имени текущего пользователя. Возвращает ID созданной записи.
// @Tags Posts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPost true "Данные нового поста"
// @Success 200 {object} map[string]any "Успешное создание поста"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или запрещенная лексика"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании поста"
// @Router /posts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	id, err := h.service.CreatePost(r.Context(), session.User.ID, session.User.Name, req)
	if err != nil {
		var profErr *communityservice.ProfanityError
		switch {
		case errors.As(err, &profErr):
			log.Warn("profanity rejected", slog.String("word", profErr.Word))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("부적절한 표현이 포함되어 있습니다: "+profErr.Word))
		case errors.Is(err, communityservice.ErrInvalidCategory):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("알 수 없는 카테고리입니다"))
		default:
			log.Error("failed to create post", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create post"))
		}
		return
	}

	log.Info("post created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
