// Package userstatus реализует HTTP-обработчик блокировки
// и разблокировки пользователей.
package userstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	moderationservice "github.com/minwoojang/husband-er/internal/services/moderation"
)

// Request — структура входных данных смены статуса.
type Request struct {
	Status string `json:"status" validate:"required,oneof=active banned"`
}

// Handler управляет HTTP-запросами смены статуса пользователя.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики модерации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики смены статуса.
type Service interface {
	SetUserStatus(ctx context.Context, userUID, status string) error
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
// @Summary Изменить статус пользователя
// @Description Блокирует или разблокирует пользователя. Блокировка действует с текущего запроса.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Новый статус"
// @Success 200 {object} response.Response "Статус изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users/{uid}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userstatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")

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

	err := h.service.SetUserStatus(r.Context(), userUID, req.Status)
	switch {
	case errors.Is(err, moderationservice.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("사용자를 찾을 수 없습니다"))
		return
	case errors.Is(err, moderationservice.ErrInvalidStatus):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid status value"))
		return
	case err != nil:
		log.Error("failed to update user status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update user status"))
		return
	}

	log.Info("user status updated", sl.Subject(userUID), slog.String("status", req.Status))
	render.JSON(w, r, response.OK())
}
