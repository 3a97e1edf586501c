package usecase

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
)

type GetReviewsUseCase struct {
	api port.StorefrontAPIPort
}

func NewGetReviewsUseCase(api port.StorefrontAPIPort) *GetReviewsUseCase {
	return &GetReviewsUseCase{api: api}
}

func (uc *GetReviewsUseCase) Execute(ctx context.Context) ([]domain.Review, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetReviews"})
	ucLogger.Info("Use case started", nil)

	reviews, err := uc.api.GetReviews(ctx)
	if err != nil {
		ucLogger.Error("Failed to fetch reviews", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"reviews_count": len(reviews)})
	return sanitizeReviews(reviews), nil
}

func sanitizeReviews(reviews []domain.Review) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.Sanitized())
	}
	return out
}
