// Package authevent реализует внутрипроцессную шину событий аутентификации.
// Сервис авторизации публикует события входа и выхода, хранилище сессии
// подписывается на них и обновляет свое состояние.
package authevent

import (
	"sync"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// EventType тип события аутентификации.
type EventType string

const (
	// SignedIn пользователь вошел в систему.
	SignedIn EventType = "signed_in"
	// SignedOut пользователь вышел из системы.
	SignedOut EventType = "signed_out"
)

// Event событие аутентификации. Identity заполнен только для SignedIn.
type Event struct {
	Type     EventType
	Identity *models.Identity
}

// subscriber очередь событий одного подписчика. Очередь не ограничена,
// отдельная горутина доставляет события в канал подписчика по порядку.
type subscriber struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
	done   chan struct{}
}

// Broker рассылает события всем активным подписчикам.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

// NewBroker создает шину без подписчиков.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscriber)}
}

// Subscribe регистрирует подписчика и возвращает канал событий вместе
// с функцией отписки. Канал закрывается при отписке, недоставленные
// к этому моменту события отбрасываются.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	sub := &subscriber{done: make(chan struct{})}
	sub.cond = sync.NewCond(&sub.mu)
	b.subs[id] = sub

	out := make(chan Event)
	go sub.deliver(out)

	unsubscribe := func() {
		b.mu.Lock()
		s, ok := b.subs[id]
		if ok {
			delete(b.subs, id)
		}
		b.mu.Unlock()
		if !ok {
			return
		}
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.cond.Signal()
		close(s.done)
	}
	return out, unsubscribe
}

// Publish доставляет событие всем подписчикам. События ставятся в очередь
// подписчика и не теряются: медленный подписчик не блокирует издателя,
// порядок доставки совпадает с порядком публикации.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		sub.mu.Lock()
		if !sub.closed {
			sub.queue = append(sub.queue, event)
		}
		sub.mu.Unlock()
		sub.cond.Signal()
	}
}

// SubscriberCount возвращает число активных подписчиков.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// deliver перекладывает события из очереди в канал подписчика,
// блокируясь на медленном получателе вместо потери события.
func (s *subscriber) deliver(out chan<- Event) {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			close(out)
			return
		}
		event := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case out <- event:
		case <-s.done:
			close(out)
			return
		}
	}
}
