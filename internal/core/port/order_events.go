package port

import (
	"context"
	"storefront-service/internal/core/domain"
)

// OrderEventsPort - публикация событий об оформленных заказах во внешний брокер.
type OrderEventsPort interface {
	PublishOrderSubmitted(ctx context.Context, event domain.OrderSubmittedEvent) error
}
