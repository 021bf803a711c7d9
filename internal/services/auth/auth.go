// Package auth содержит логику бизнес-уровня для регистрации,
// аутентификации и публикации событий входа и выхода.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/zen-zone/internal/authevent"
	"github.com/magabrotheeeer/zen-zone/internal/lib/jwt"
	"github.com/magabrotheeeer/zen-zone/internal/lib/password"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Ошибки уровня сервиса. Неподтвержденная почта отличается от неверных
// учетных данных: обработчик отдает им разные коды ответа.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	broker   *authevent.Broker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, broker *authevent.Broker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		broker:   broker,
	}
}

// Register создает нового пользователя с хэшированием пароля и
// дефолтной ролью "user".
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:          email,
		Username:       username,
		PasswordHash:   hashed,
		Role:           "user",
		EmailConfirmed: true,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя, генерирует JWT и публикует
// событие входа.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, *models.Identity, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if !user.EmailConfirmed {
		return "", nil, fmt.Errorf("%s: %w", op, ErrEmailNotConfirmed)
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Username, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	identity := &models.Identity{
		UserUID:  user.UUID,
		Username: user.Username,
		Email:    user.Email,
	}
	s.broker.Publish(authevent.Event{Type: authevent.SignedIn, Identity: identity})
	return token, identity, nil
}

// SignOut публикует событие выхода. Сам токен не отзывается, его срок
// жизни ограничен конфигурацией.
func (s *Service) SignOut(_ context.Context) {
	s.broker.Publish(authevent.Event{Type: authevent.SignedOut})
}

// ValidateToken проверяет JWT и возвращает личность пользователя.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.Identity, string, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	identity := &models.Identity{
		UserUID:  claims.UserUID,
		Username: claims.Username,
		Email:    claims.Email,
	}
	return identity, claims.Role, nil
}
