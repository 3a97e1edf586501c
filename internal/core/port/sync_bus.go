package port

import (
	"context"
	"storefront-service/internal/core/domain"
)

// CartListener получает события корзины. Идентичность подписчика -
// само значение интерфейса, поэтому реализации должны быть указателями.
type CartListener interface {
	OnCartUpdate(ctx context.Context, event domain.CartEvent)
}

// SyncBusPort - внутрипроцессная шина синхронизации корзины.
type SyncBusPort interface {
	// Publish синхронно доставляет событие всем подписчикам в порядке подписки.
	Publish(ctx context.Context, event domain.CartEvent)
	Subscribe(listener CartListener)
	Unsubscribe(listener CartListener)
}
