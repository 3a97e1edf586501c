package usecases_port

import (
	"context"
	"storefront-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetStorefrontUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (domain.Storefront, error)
}
