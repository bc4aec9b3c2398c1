package husbander

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/minwoojang/husband-er/internal/cache"
	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/lib/jwt"
	"github.com/minwoojang/husband-er/internal/lib/rabbitmq"
	"github.com/minwoojang/husband-er/internal/migrations"
	"github.com/minwoojang/husband-er/internal/naverprovider"
	authservice "github.com/minwoojang/husband-er/internal/services/auth"
	communityservice "github.com/minwoojang/husband-er/internal/services/community"
	examservice "github.com/minwoojang/husband-er/internal/services/exam"
	moderationservice "github.com/minwoojang/husband-er/internal/services/moderation"
	"github.com/minwoojang/husband-er/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetModerationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	naverClient := naverprovider.NewClient(cfg.Naver.ClientID, cfg.Naver.ClientSecret)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, cfg.DemoAccounts, logger)
	if err = authService.EnsureAdminAccount(ctx, cfg.AdminSeed); err != nil {
		return nil, err
	}

	communityService := communityservice.NewCommunityService(db, cacheRedis, logger)
	moderationService := moderationservice.NewModerationService(db, cacheRedis, &rabbitmq.Publisher{Ch: ch}, logger)
	examService := examservice.NewExamService(db, jwtMaker)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, RouteDeps{
		Auth:       authService,
		Community:  communityService,
		Moderation: moderationService,
		Exam:       examService,
		Provider:   naverClient,
		Cache:      cacheRedis,
		Users:      db,
		TokenTTL:   jwtMaker.TTL(),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
