package models

import "time"

// Achievement представляет достижение из каталога вместе с отметкой
// о том, получено ли оно конкретным пользователем.
type Achievement struct {
	ID          string     `json:"id"`                  // Уникальный идентификатор достижения
	Name        string     `json:"name"`                // Название
	Description string     `json:"description"`         // Описание условия получения
	Points      int        `json:"points"`              // Очки за получение
	Icon        string     `json:"icon"`                // Тег иконки для клиента
	Earned      bool       `json:"earned"`              // Получено ли достижение
	EarnedAt    *time.Time `json:"earned_at,omitempty"` // Когда получено, nil если не получено
}

// AchievementEvent сообщение в очередь уведомлений о полученном достижении.
type AchievementEvent struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	AchievementName string `json:"achievement_name"`
	Points          int    `json:"points"`
}

// PaymentEvent сообщение в очередь уведомлений об успешной оплате подписки.
type PaymentEvent struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	TierName string `json:"tier_name"`
}
