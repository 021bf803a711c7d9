// Package models содержит доменные структуры Zen Zone: пользователи, тарифы,
// подписки, достижения и настройки, а также вспомогательные типы для приёма
// данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID           string    // Уникальный идентификатор пользователя
	Email          string    // Электронная почта
	Username       string    // Имя пользователя (уникальное)
	PasswordHash   string    // Хэш пароля пользователя
	Role           string    // Роль пользователя, admin или user
	EmailConfirmed bool      // Подтверждена ли электронная почта
	CreatedAt      time.Time // Дата регистрации
}

// Identity минимальная информация о пользователе, живущая в сессии.
// Заменяется целиком при входе и выходе.
type Identity struct {
	UserUID  string
	Username string
	Email    string
}
