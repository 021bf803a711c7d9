package models

import "time"

// Subscription представляет подписку пользователя на тариф.
// Тариф читается вместе с подпиской одним запросом, чтобы производные
// права никогда не считались по устаревшей паре подписка/тариф.
type Subscription struct {
	ID                 string     `json:"id"`                             // Уникальный идентификатор подписки
	UserUID            string     `json:"user_uid"`                       // Идентификатор пользователя
	TierID             string     `json:"tier_id"`                        // Идентификатор тарифа
	Active             bool       `json:"active"`                         // Признак активной подписки
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"` // Начало оплаченного периода, nil для бесплатного тарифа
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`   // Конец оплаченного периода, nil для бесплатного тарифа
	Tier               Tier       `json:"tier"`                           // Тариф, прочитанный вместе с подпиской
}

// Entitlement производное состояние прав пользователя. Не хранится в базе,
// пересчитывается при каждом изменении подписки или тарифа.
type Entitlement struct {
	Subscription *Subscription `json:"subscription,omitempty"` // nil, если подписки нет (ошибка каталога тарифов)
	IsSubscribed bool          `json:"is_subscribed"`          // active && price > 0
}

// ComputeEntitlement вычисляет права по подписке. Активная подписка на
// бесплатный тариф не даёт премиум-доступа.
func ComputeEntitlement(sub *Subscription) Entitlement {
	if sub == nil {
		return Entitlement{}
	}
	return Entitlement{
		Subscription: sub,
		IsSubscribed: sub.Active && sub.Tier.Price > 0,
	}
}
