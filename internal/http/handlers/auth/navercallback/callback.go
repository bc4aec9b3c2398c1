// Package navercallback реализует HTTP-обработчик OAuth-колбэка Naver.
//
// Обработчик обменивает код авторизации на access-токен, запрашивает
// профиль пользователя и делегирует вход сервису аутентификации.
// Все исходы завершаются редиректом: при отказе политики клиент
// попадает на страницу входа с кодом ошибки в query-параметре,
// при успехе — на страницу сообщества с токеном во фрагменте URL.
package navercallback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/lib/sl"
	"github.com/minwoojang/husband-er/internal/models"
	"github.com/minwoojang/husband-er/internal/naverprovider"
	authservice "github.com/minwoojang/husband-er/internal/services/auth"
)

// Provider описывает интерфейс OAuth-клиента Naver.
type Provider interface {
	ExchangeCode(ctx context.Context, code, state string) (*naverprovider.TokenResponse, error)
	FetchProfile(ctx context.Context, accessToken string) (*naverprovider.Profile, error)
}

// Service описывает интерфейс бизнес-логики входа через внешний профиль.
type Service interface {
	LoginSocial(ctx context.Context, profile *naverprovider.Profile) (string, *models.User, error)
}

// Handler обрабатывает OAuth-колбэк Naver.
type Handler struct {
	log      *slog.Logger // Логгер для записи операций и ошибок
	provider Provider     // OAuth-клиент Naver
	service  Service      // Сервис бизнес-логики аутентификации
	pages    config.Pages // Адреса страниц для редиректов
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, provider Provider, service Service, pages config.Pages) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		service:  service,
		pages:    pages,
	}
}

// ServeHTTP godoc
// @Summary OAuth-колбэк Naver
// @Description Завершает вход через Naver. Отказ политики ведет на страницу входа с кодом ошибки, успех — на страницу сообщества с токеном во фрагменте URL.
// @Tags Auth
// @Param code query string true "Код авторизации"
// @Param state query string true "CSRF-состояние"
// @Success 302 "Редирект"
// @Router /auth/naver/callback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.navercallback"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		log.Error("authorization code missing")
		h.redirectError(w, r, "AuthFailed")
		return
	}

	tokenResp, err := h.provider.ExchangeCode(r.Context(), code, state)
	if err != nil {
		log.Error("failed to exchange authorization code", sl.Err(err))
		h.redirectError(w, r, "AuthFailed")
		return
	}

	profile, err := h.provider.FetchProfile(r.Context(), tokenResp.AccessToken)
	if err != nil {
		log.Error("failed to fetch profile", sl.Err(err))
		h.redirectError(w, r, "AuthFailed")
		return
	}

	token, user, err := h.service.LoginSocial(r.Context(), profile)
	switch {
	case errors.Is(err, authservice.ErrGenderRejected):
		log.Warn("gender policy rejected login", sl.Subject(profile.ID))
		h.redirectError(w, r, authservice.CodeGenderAccessDenied)
		return
	case errors.Is(err, authservice.ErrBannedUser):
		log.Warn("banned user login rejected", sl.Subject(profile.ID))
		h.redirectError(w, r, authservice.CodeBannedUser)
		return
	case err != nil:
		log.Error("social login failed", sl.Err(err))
		h.redirectError(w, r, "AuthFailed")
		return
	}

	log.Info("social login success", slog.String("username", user.Username))
	http.Redirect(w, r, h.pages.LoginSuccess+"#token="+token, http.StatusFound)
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.pages.LoginPage+"?error="+code, http.StatusFound)
}
