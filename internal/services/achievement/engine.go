// Package achievement содержит движок очков и достижений: чистый расчет
// очков за сессию и идемпотентную выдачу достижений.
package achievement

import (
	"sync"
	"time"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Базовые очки и бонусы за сессию.
const (
	basePoints           = 10
	terribleReboundBonus = 20
	badReboundBonus      = 15
	withinBudgetBonus    = 25
)

// ComputeSessionPoints считает очки за сессию по настроению до и после.
// Расчет детерминированный: бонусы за восстановление настроения взаимно
// исключают друг друга, для корректного входа результат не меньше базы.
func ComputeSessionPoints(before, after models.Mood, withinBudget bool) int {
	points := basePoints

	switch {
	case before == models.MoodTerrible && after.AtLeast(models.MoodNeutral):
		points += terribleReboundBonus
	case before == models.MoodBad && after.AtLeast(models.MoodGood):
		points += badReboundBonus
	}

	if withinBudget {
		points += withinBudgetBonus
	}
	return points
}

// Catalog потокобезопасный каталог достижений в памяти. Используется
// движком напрямую, без базы: выдача повторяет контракт хранилища.
type Catalog struct {
	mu       sync.Mutex
	known    map[string]models.Achievement
	unlocked map[string]map[string]bool
}

// NewCatalog создает каталог с заданным набором достижений.
func NewCatalog(achievements []models.Achievement) *Catalog {
	known := make(map[string]models.Achievement, len(achievements))
	for _, a := range achievements {
		known[a.ID] = a
	}
	return &Catalog{
		known:    known,
		unlocked: make(map[string]map[string]bool),
	}
}

// Unlock выдает достижение пользователю. Повторная выдача и неизвестный
// идентификатор возвращают nil без ошибки, достижение возвращается
// только при первой выдаче.
func (c *Catalog) Unlock(userUID, achievementID string) *models.Achievement {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.known[achievementID]
	if !ok {
		return nil
	}
	byUser := c.unlocked[userUID]
	if byUser == nil {
		byUser = make(map[string]bool)
		c.unlocked[userUID] = byUser
	}
	if byUser[achievementID] {
		return nil
	}
	byUser[achievementID] = true

	now := time.Now().UTC()
	a.Earned = true
	a.EarnedAt = &now
	return &a
}
