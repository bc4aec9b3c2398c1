// Package notifier реализует воркер, слушающий события модерации.
//
// Воркер потребляет события о новых жалобах из очереди и пишет их
// в журнал, чтобы дежурный администратор видел поступающие сигналы
// без опроса базы.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/minwoojang/husband-er/internal/config"
	"github.com/minwoojang/husband-er/internal/lib/rabbitmq"
	"github.com/minwoojang/husband-er/internal/models"
)

type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitConnection, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetModerationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &App{
		conn:   conn,
		ch:     ch,
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, "moderation.reports", a.handleReportCreated)
	if err != nil {
		a.logger.Error("failed to start moderation.reports consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("moderation notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

func (a *App) handleReportCreated(body []byte) error {
	var event models.ReportEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	a.logger.Info("new report received",
		slog.Int("report_id", event.ReportID),
		slog.String("target_type", event.TargetType),
		slog.Int("target_id", event.TargetID),
		slog.String("reporter_uid", event.ReporterUID),
	)
	return nil
}
