package notifier

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"sync"
)

// SyncBus - реализация SyncBusPort. Доставка синхронная, в порядке подписки,
// в той же горутине, что вызвала Publish.
type SyncBus struct {
	mu        sync.RWMutex
	listeners []port.CartListener
}

func NewSyncBus() *SyncBus {
	return &SyncBus{}
}

// Subscribe регистрирует слушателя. Повторная регистрация того же слушателя ничего не меняет.
func (b *SyncBus) Subscribe(listener port.CartListener) {
	if listener == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, l := range b.listeners {
		if l == listener {
			return
		}
	}
	b.listeners = append(b.listeners, listener)
}

// Unsubscribe снимает слушателя. Неизвестный слушатель игнорируется.
func (b *SyncBus) Unsubscribe(listener port.CartListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, l := range b.listeners {
		if l == listener {
			// Новый срез, чтобы не портить снимок, который может обходить Publish
			next := make([]port.CartListener, 0, len(b.listeners)-1)
			next = append(next, b.listeners[:i]...)
			next = append(next, b.listeners[i+1:]...)
			b.listeners = next
			return
		}
	}
}

// Publish вызывает всех слушателей, зарегистрированных на момент вызова.
func (b *SyncBus) Publish(ctx context.Context, event domain.CartEvent) {
	b.mu.RLock()
	listeners := b.listeners
	b.mu.RUnlock()

	contextkeys.LoggerFromContext(ctx).Debug("Publishing cart event", port.Fields{
		"component":       "SyncBus",
		"event_type":      event.Type,
		"session_id":      event.SessionID,
		"listeners_count": len(listeners),
	})

	for _, l := range listeners {
		l.OnCartUpdate(ctx, event)
	}
}

// Len - количество активных слушателей.
func (b *SyncBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
