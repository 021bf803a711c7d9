package models

// Mood пятибалльная шкала настроения пользователя до и после сессии.
type Mood string

// Допустимые значения настроения.
const (
	MoodTerrible Mood = "terrible"
	MoodBad      Mood = "bad"
	MoodNeutral  Mood = "neutral"
	MoodGood     Mood = "good"
	MoodGreat    Mood = "great"
)

// Valid сообщает, входит ли значение в шкалу.
func (m Mood) Valid() bool {
	switch m {
	case MoodTerrible, MoodBad, MoodNeutral, MoodGood, MoodGreat:
		return true
	}
	return false
}

var moodRank = map[Mood]int{
	MoodTerrible: 0,
	MoodBad:      1,
	MoodNeutral:  2,
	MoodGood:     3,
	MoodGreat:    4,
}

// AtLeast сообщает, что настроение не хуже порогового.
func (m Mood) AtLeast(other Mood) bool {
	return moodRank[m] >= moodRank[other]
}

// UserSettings настройки таймера прокрутки пользователя.
type UserSettings struct {
	UserUID    string // Идентификатор пользователя
	TimerLimit int    // Лимит таймера прокрутки в секундах
}

// PlatformTimer снимок таймера одной социальной платформы.
type PlatformTimer struct {
	Name         string `json:"name"`
	LimitMinutes int    `json:"limit_minutes"`
	SpentMinutes int    `json:"spent_minutes"`
}

// WithinBudget сообщает, укладывается ли суммарное время по платформам
// в суммарный лимит. Пустой список считается уложившимся.
func WithinBudget(timers []PlatformTimer) bool {
	var limit, spent int
	for _, t := range timers {
		limit += t.LimitMinutes
		spent += t.SpentMinutes
	}
	return spent <= limit
}
