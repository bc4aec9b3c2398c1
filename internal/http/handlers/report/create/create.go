// Package create реализует HTTP-обработчик подачи жалоб на посты
// и комментарии.
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
	moderationservice "github.com/minwoojang/husband-er/internal/services/moderation"
)

// Request — структура входных данных жалобы.
type Request struct {
	TargetType string `json:"target_type" validate:"required,oneof=post comment"`
	TargetID   int    `json:"target_id" validate:"required,gt=0"`
	Reason     string `json:"reason" validate:"required,min=2,max=1000"`
}

// Handler управляет HTTP-запросами на подачу жалоб.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики модерации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подачи жалобы.
type Service interface {
	CreateReport(ctx context.Context, reporterUID, targetType string, targetID int, reason string) (int, error)
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
// @Summary Подать жалобу
// @Description Создает жалобу на пост или комментарий и ставит её в очередь модерации.
// @Tags Reports
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Данные жалобы"
// @Success 200 {object} map[string]any "Жалоба принята"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Цель жалобы не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	id, err := h.service.CreateReport(r.Context(), session.User.ID, req.TargetType, req.TargetID, req.Reason)
	if errors.Is(err, moderationservice.ErrTargetNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("신고 대상을 찾을 수 없습니다"))
		return
	}
	if err != nil {
		log.Error("failed to create report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create report"))
		return
	}

	log.Info("report created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
