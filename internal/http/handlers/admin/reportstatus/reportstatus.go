// Package reportstatus реализует HTTP-обработчик обработки жалобы.
//
// Жалоба обрабатывается ровно один раз: при гонке двух администраторов
// проигравший получает 409 Conflict.
package reportstatus

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

	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	moderationservice "github.com/minwoojang/husband-er/internal/services/moderation"
)

// Request — структура входных данных обработки жалобы.
type Request struct {
	Status string `json:"status" validate:"required,oneof=resolved dismissed"`
}

// Handler управляет HTTP-запросами обработки жалоб.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики модерации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обработки жалобы.
type Service interface {
	ResolveReport(ctx context.Context, id int, status string) error
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
// @Summary Обработать жалобу
// @Description Переводит жалобу из pending в resolved или dismissed. Повторная обработка возвращает конфликт.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID жалобы"
// @Param request body Request true "Новый статус"
// @Success 200 {object} response.Response "Жалоба обработана"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Жалоба не найдена"
// @Failure 409 {object} response.ErrorResponse "Жалоба уже обработана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reports/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reportstatus"
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

	err = h.service.ResolveReport(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, moderationservice.ErrReportNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("신고를 찾을 수 없습니다"))
		return
	case errors.Is(err, moderationservice.ErrAlreadyResolved):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("이미 처리된 신고입니다"))
		return
	case errors.Is(err, moderationservice.ErrInvalidStatus):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid status value"))
		return
	case err != nil:
		log.Error("failed to resolve report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resolve report"))
		return
	}

	log.Info("report resolved", slog.Int("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OK())
}
