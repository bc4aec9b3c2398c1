// Package questions реализует HTTP-обработчик выдачи банка вопросов
// экзамена. Баллы вариантов ответов клиенту не раскрываются.
package questions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/response"
	examservice "github.com/minwoojang/husband-er/internal/services/exam"
)

// Handler управляет HTTP-запросами банка вопросов.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Вопросы экзамена
// @Description Возвращает банк вопросов с вариантами ответов без баллов.
// @Tags Exam
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Вопросы экзамена"
// @Router /exam/questions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"questions":     examservice.Questions(),
		"passing_score": examservice.PassingScore,
	}))
}
