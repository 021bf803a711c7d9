package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в exchange "notifications".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Имена очередей уведомлений Zen Zone.
const (
	AchievementQueue = "notification.achievement"
	PaymentQueue     = "notification.payment"
)

// GetNotificationQueues возвращает очереди, которые слушает сервис уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AchievementQueue, RoutingKey: "achievement"},
		{QueueName: PaymentQueue, RoutingKey: "payment"},
	}
}
