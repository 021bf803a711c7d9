// Package session хранит текущее состояние сессии пользователя: личность,
// права доступа и признак загрузки. Хранилище подписано на события
// аутентификации и асинхронно разрешает права при входе пользователя.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/zen-zone/internal/authevent"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Prober отвечает на вопрос "кто сейчас вошел в систему".
type Prober interface {
	CurrentSession(ctx context.Context) (*models.Identity, error)
}

// ProberFunc адаптер функции к интерфейсу Prober.
type ProberFunc func(ctx context.Context) (*models.Identity, error)

// CurrentSession вызывает f.
func (f ProberFunc) CurrentSession(ctx context.Context) (*models.Identity, error) {
	return f(ctx)
}

// Resolver разрешает права доступа пользователя.
type Resolver interface {
	Resolve(ctx context.Context, userUID string) (*models.Entitlement, error)
}

// State снимок состояния сессии. Loading истинен до первого ответа
// пробы или первого события аутентификации.
type State struct {
	Identity    *models.Identity
	Entitlement *models.Entitlement
	Loading     bool
}

// Store потокобезопасное хранилище состояния сессии.
type Store struct {
	log      *slog.Logger
	resolver Resolver

	mu         sync.Mutex
	state      State
	eventSeen  bool
	resolveGen int

	unsubscribe func()
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewStore создает хранилище и запускает начальную пробу сессии.
// Подписка на события оформляется до пробы, чтобы вход, случившийся
// во время пробы, не потерялся.
func NewStore(ctx context.Context, log *slog.Logger, prober Prober,
	resolver Resolver, broker *authevent.Broker) *Store {
	ctx, cancel := context.WithCancel(ctx)

	s := &Store{
		log:      log,
		resolver: resolver,
		state:    State{Loading: true},
		cancel:   cancel,
	}

	events, unsubscribe := broker.Subscribe()
	s.unsubscribe = unsubscribe

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				s.applyEvent(ctx, event)
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		identity, err := prober.CurrentSession(ctx)
		if err != nil {
			s.log.Warn("session probe failed", sl.Err(err))
			identity = nil
		}
		s.applyProbe(ctx, identity)
	}()

	return s
}

// Snapshot возвращает копию текущего состояния.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close отписывается от событий и дожидается остановки воркеров.
func (s *Store) Close() {
	s.unsubscribe()
	s.cancel()
	s.wg.Wait()
}

// applyProbe применяет результат начальной пробы. Если событие
// аутентификации уже пришло, результат пробы устарел и отбрасывается,
// кроме снятия признака загрузки.
func (s *Store) applyProbe(ctx context.Context, identity *models.Identity) {
	s.mu.Lock()
	if s.eventSeen {
		s.state.Loading = false
		s.mu.Unlock()
		return
	}
	gen := s.setIdentityLocked(identity)
	s.mu.Unlock()

	if identity != nil {
		s.resolveAsync(ctx, identity.UserUID, gen)
	}
}

// applyEvent применяет событие аутентификации. Выход очищает права
// синхронно с личностью, промежуточного состояния не существует.
func (s *Store) applyEvent(ctx context.Context, event authevent.Event) {
	s.mu.Lock()
	s.eventSeen = true

	var identity *models.Identity
	if event.Type == authevent.SignedIn {
		identity = event.Identity
	}
	gen := s.setIdentityLocked(identity)
	s.mu.Unlock()

	if identity != nil {
		s.resolveAsync(ctx, identity.UserUID, gen)
	}
}

// setIdentityLocked обновляет личность и возвращает номер поколения
// для отсечения устаревших разрешений прав.
func (s *Store) setIdentityLocked(identity *models.Identity) int {
	s.resolveGen++
	s.state.Identity = identity
	s.state.Entitlement = nil
	s.state.Loading = false
	return s.resolveGen
}

// resolveAsync разрешает права в отдельной горутине. Результат
// применяется только если пользователь с момента запуска не сменился:
// поздний ответ для уже вышедшего пользователя отбрасывается.
func (s *Store) resolveAsync(ctx context.Context, userUID string, gen int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		entitlement, err := s.resolver.Resolve(ctx, userUID)
		if err != nil {
			s.log.Error("entitlement resolution failed",
				slog.String("user_uid", userUID), sl.Err(err))
			entitlement = &models.Entitlement{}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.resolveGen != gen {
			return
		}
		if s.state.Identity == nil || s.state.Identity.UserUID != userUID {
			return
		}
		s.state.Entitlement = entitlement
	}()
}
