package usecases_port

import (
	"context"
	"storefront-service/internal/core/domain"

	"github.com/google/uuid"
)

type LoadCatalogPageUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, page int) (domain.CatalogPage, error)
}
