// Package submit реализует HTTP-обработчик сдачи вступительного экзамена.
//
// Ответы оцениваются по банку вопросов; при сумме баллов не ниже
// проходной выпускается новый токен с установленным флагом exam_passed.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/http/response"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	examservice "github.com/minwoojang/husband-er/internal/services/exam"
)

// Request — структура входных данных экзамена: номер вопроса -> вариант.
type Request struct {
	Answers map[int]string `json:"answers"`
}

// Handler управляет HTTP-запросами сдачи экзамена.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики экзамена
}

// Service описывает интерфейс бизнес-логики экзамена.
type Service interface {
	Submit(ctx context.Context, userUID string, answers map[int]string) (*examservice.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сдать экзамен
// @Description Оценивает ответы на вопросы экзамена. При сдаче возвращает новый токен с флагом exam_passed.
// @Tags Exam
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Ответы на вопросы"
// @Success 200 {object} map[string]any "Результат экзамена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Неполные или неизвестные ответы"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /exam/submit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exam.submit"
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

	session, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok || session.User == nil {
		log.Error("session missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.service.Submit(r.Context(), session.User.ID, req.Answers)
	switch {
	case errors.Is(err, examservice.ErrIncompleteAnswers),
		errors.Is(err, examservice.ErrUnknownOption):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("모든 문제에 답해 주세요"))
		return
	case err != nil:
		log.Error("failed to grade exam", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not grade exam"))
		return
	}

	log.Info("exam graded",
		slog.Int("score", result.Score),
		slog.Bool("passed", result.Passed),
		sl.Subject(session.User.ID))
	render.JSON(w, r, response.OKWithData(result))
}
