// Package metrics содержит доменные счётчики Prometheus сервиса Zen Zone.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MoodCheckins количество обработанных чекинов настроения.
	MoodCheckins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zenzone_mood_checkins_total",
		Help: "Количество обработанных чекинов настроения.",
	})

	// AchievementsUnlocked количество впервые полученных достижений.
	AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zenzone_achievements_unlocked_total",
		Help: "Количество впервые полученных достижений.",
	})

	// PaymentsSucceeded количество успешно завершённых оплат подписки.
	PaymentsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zenzone_payments_succeeded_total",
		Help: "Количество успешно завершённых оплат подписки.",
	})
)
