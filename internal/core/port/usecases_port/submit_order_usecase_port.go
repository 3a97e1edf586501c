package usecases_port

import (
	"context"
	"storefront-service/internal/core/domain"

	"github.com/google/uuid"
)

type SubmitOrderUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (domain.CheckoutStatus, error)
}
