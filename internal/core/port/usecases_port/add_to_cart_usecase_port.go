package usecases_port

import (
	"context"
	"storefront-service/internal/core/domain"

	"github.com/google/uuid"
)

type AddToCartUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, productID int) (domain.CartView, error)
}
