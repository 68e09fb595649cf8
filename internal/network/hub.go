package network

import (
	"sync"

	"deepforge-server/pkg/api"
)

// Broadcaster занимается только рассылкой кадров подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID клиента -> Личный канал
	subscribers map[string]chan api.MapFrame
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.MapFrame),
	}
}

// Register создает личный канал для клиента
func (b *Broadcaster) Register(clientID string) chan api.MapFrame {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[clientID]; ok {
		close(old)
	}

	ch := make(chan api.MapFrame, 100)
	b.subscribers[clientID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[clientID]; ok {
		close(ch)
		delete(b.subscribers, clientID)
	}
}

// SendTo отправляет кадр конкретному клиенту (Unicast).
// Переполненный канал означает отставшего клиента: кадр отбрасывается,
// следующий LEVEL-кадр все равно принесет полное состояние.
func (b *Broadcaster) SendTo(clientID string, msg api.MapFrame) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[clientID]; ok {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Broadcast отправляет кадр всем подписчикам
func (b *Broadcaster) Broadcast(msg api.MapFrame) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
