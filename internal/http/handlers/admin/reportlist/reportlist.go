// Package reportlist реализует HTTP-обработчик списка жалоб
// для административной панели.
package reportlist

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
	moderationservice "github.com/minwoojang/husband-er/internal/services/moderation"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler управляет HTTP-запросами списка жалоб.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики модерации
}

// Service описывает интерфейс бизнес-логики списка жалоб.
type Service interface {
	ListReports(ctx context.Context, status string, limit, offset int) ([]*models.Report, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список жалоб
// @Description Возвращает страницу жалоб, новые сверху. Пустой статус означает все жалобы.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param status query string false "Статус: pending, resolved, dismissed"
// @Param limit query int false "Размер страницы (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список жалоб"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reports [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reportlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := r.URL.Query().Get("status")
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

	reports, err := h.service.ListReports(r.Context(), status, limit, offset)
	if errors.Is(err, moderationservice.ErrInvalidStatus) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid status value"))
		return
	}
	if err != nil {
		log.Error("failed to list reports", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list reports"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"reports": reports,
	}))
}
