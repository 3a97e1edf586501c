package usecases_port

import (
	"context"
	"storefront-service/internal/core/domain"

	"github.com/google/uuid"
)

type SetQuantityUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, productID, quantity int) (domain.CartView, error)
}
