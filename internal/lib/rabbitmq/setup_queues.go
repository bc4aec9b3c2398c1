package rabbitmq

// ModerationExchange имя обменника для событий модерации.
const ModerationExchange = "moderation"

// ReportCreatedKey ключ маршрутизации для событий о новых жалобах.
const ReportCreatedKey = "report.created"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetModerationQueues возвращает очереди, которые слушает воркер модерации.
func GetModerationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "moderation.reports", RoutingKey: ReportCreatedKey},
	}
}
