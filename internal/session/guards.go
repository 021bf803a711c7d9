package session

// Decision результат проверки доступа к защищенному разделу.
type Decision int

const (
	// Wait состояние еще загружается, решение принимать рано.
	Wait Decision = iota
	// Allow доступ разрешен.
	Allow
	// RedirectSignIn пользователь не вошел, отправить на вход.
	RedirectSignIn
	// RedirectPricing пользователь без премиума, отправить на тарифы.
	RedirectPricing
)

// AuthDecision проверяет доступ к разделам, требующим входа.
// Пока состояние грузится, решение всегда Wait: пользователь не должен
// увидеть редирект на вход до завершения пробы сессии.
func AuthDecision(s State) Decision {
	if s.Loading {
		return Wait
	}
	if s.Identity == nil {
		return RedirectSignIn
	}
	return Allow
}

// PremiumDecision проверяет доступ к премиум-разделам. Пока права не
// разрешены, решение Wait, чтобы подписчик не увидел редирект на тарифы
// из-за незавершенного разрешения.
func PremiumDecision(s State) Decision {
	if s.Loading {
		return Wait
	}
	if s.Identity == nil {
		return RedirectSignIn
	}
	if s.Entitlement == nil {
		return Wait
	}
	if !s.Entitlement.IsSubscribed {
		return RedirectPricing
	}
	return Allow
}
