// Package dashboard реализует HTTP-обработчик сводки административной панели.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	moderationservice "github.com/minwoojang/husband-er/internal/services/moderation"
)

// Handler управляет HTTP-запросами сводки панели.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики модерации
}

// Service описывает интерфейс бизнес-логики сводки.
type Service interface {
	GetDashboard(ctx context.Context) (*moderationservice.Dashboard, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка панели
// @Description Возвращает количество пользователей, постов и необработанных жалоб.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сводка"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.dashboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build dashboard"))
		return
	}

	render.JSON(w, r, response.OKWithData(dashboard))
}
