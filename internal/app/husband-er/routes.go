// Package husbander предоставляет маршруты для основного приложения.
package husbander

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/minwoojang/husband-er/internal/cache"
	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/http/handlers/admin/dashboard"
	"github.com/minwoojang/husband-er/internal/http/handlers/admin/reportlist"
	"github.com/minwoojang/husband-er/internal/http/handlers/admin/reportstatus"
	"github.com/minwoojang/husband-er/internal/http/handlers/admin/userlist"
	"github.com/minwoojang/husband-er/internal/http/handlers/admin/userrole"
	"github.com/minwoojang/husband-er/internal/http/handlers/admin/userstatus"
	"github.com/minwoojang/husband-er/internal/http/handlers/auth/login"
	"github.com/minwoojang/husband-er/internal/http/handlers/auth/logout"
	"github.com/minwoojang/husband-er/internal/http/handlers/auth/navercallback"
	"github.com/minwoojang/husband-er/internal/http/handlers/auth/session"
	commentcreate "github.com/minwoojang/husband-er/internal/http/handlers/comment/create"
	commentlist "github.com/minwoojang/husband-er/internal/http/handlers/comment/list"
	commentremove "github.com/minwoojang/husband-er/internal/http/handlers/comment/remove"
	"github.com/minwoojang/husband-er/internal/http/handlers/exam/questions"
	"github.com/minwoojang/husband-er/internal/http/handlers/exam/submit"
	"github.com/minwoojang/husband-er/internal/http/handlers/post/create"
	"github.com/minwoojang/husband-er/internal/http/handlers/post/like"
	"github.com/minwoojang/husband-er/internal/http/handlers/post/list"
	"github.com/minwoojang/husband-er/internal/http/handlers/post/read"
	"github.com/minwoojang/husband-er/internal/http/handlers/post/remove"
	"github.com/minwoojang/husband-er/internal/http/handlers/post/update"
	reportcreate "github.com/minwoojang/husband-er/internal/http/handlers/report/create"
	"github.com/minwoojang/husband-er/internal/http/middlewarectx"
	"github.com/minwoojang/husband-er/internal/models"
	"github.com/minwoojang/husband-er/internal/naverprovider"
	authservice "github.com/minwoojang/husband-er/internal/services/auth"
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
	examservice "github.com/minwoojang/husband-er/internal/services/exam"
	moderationservice "github.com/minwoojang/husband-er/internal/services/moderation"
	"github.com/minwoojang/husband-er/internal/storage/repository"
)

// RouteDeps собирает зависимости, необходимые для регистрации маршрутов.
type RouteDeps struct {
	Auth       *authservice.AuthService
	Community  *communityservice.CommunityService
	Moderation *moderationservice.ModerationService
	Exam       *examservice.ExamService
	Provider   *naverprovider.Client
	Cache      *cache.Cache
	Users      *repository.Storage
	TokenTTL   time.Duration
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps RouteDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", login.New(logger, deps.Auth).ServeHTTP)
		r.Get("/auth/naver/callback", navercallback.New(logger, deps.Provider, deps.Auth, cfg.Pages).ServeHTTP)
		r.Get("/auth/session", session.New(logger, deps.Auth, deps.Cache).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Auth, deps.Cache, logger, cfg.Pages.LoginPage))
			r.Use(middlewarectx.BanGuardMiddleware(logger, deps.Users, cfg.Pages))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, deps.Cache, deps.TokenTTL).ServeHTTP)

			r.Post("/posts", create.New(logger, deps.Community).ServeHTTP)
			r.Get("/posts", list.New(logger, deps.Community).ServeHTTP)
			r.Get("/posts/{id}", read.New(logger, deps.Community).ServeHTTP)
			r.Put("/posts/{id}", update.New(logger, deps.Community).ServeHTTP)
			r.Delete("/posts/{id}", remove.New(logger, deps.Community).ServeHTTP)
			r.Put("/posts/{id}/like", like.New(logger, deps.Community).ServeHTTP)
			r.Delete("/posts/{id}/like", like.NewRemove(logger, deps.Community).ServeHTTP)

			r.Post("/posts/{id}/comments", commentcreate.New(logger, deps.Community).ServeHTTP)
			r.Get("/posts/{id}/comments", commentlist.New(logger, deps.Community).ServeHTTP)
			r.Delete("/comments/{id}", commentremove.New(logger, deps.Community).ServeHTTP)

			r.Post("/reports", reportcreate.New(logger, deps.Moderation).ServeHTTP)

			r.Get("/exam/questions", questions.New(logger).ServeHTTP)
			r.Post("/exam/submit", submit.New(logger, deps.Exam).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, cfg.Pages.AdminLoginPage, models.RoleAdmin))

				r.Get("/admin/dashboard", dashboard.New(logger, deps.Moderation).ServeHTTP)
				r.Get("/admin/users", userlist.New(logger, deps.Moderation).ServeHTTP)
				r.Patch("/admin/users/{uid}/status", userstatus.New(logger, deps.Moderation).ServeHTTP)
				r.Patch("/admin/users/{uid}/role", userrole.New(logger, deps.Moderation).ServeHTTP)
				r.Get("/admin/reports", reportlist.New(logger, deps.Moderation).ServeHTTP)
				r.Patch("/admin/reports/{id}/status", reportstatus.New(logger, deps.Moderation).ServeHTTP)
				r.Delete("/admin/posts/{id}", remove.New(logger, deps.Community).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
