package usecases_port

import (
	"context"
	"storefront-service/internal/core/domain"
)

type GetReviewsUseCasePort interface {
	Execute(ctx context.Context) ([]domain.Review, error)
}
