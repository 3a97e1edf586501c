package usecases_port

import (
	"context"
	"storefront-service/internal/core/domain"

	"github.com/google/uuid"
)

type SetPhoneUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, phone string) (domain.CartView, error)
}
