package usecase

import (
	"context"
	"storefront-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetCheckoutStatusUseCase struct {
	tracker *CheckoutTracker
}

func NewGetCheckoutStatusUseCase(tracker *CheckoutTracker) *GetCheckoutStatusUseCase {
	return &GetCheckoutStatusUseCase{tracker: tracker}
}

func (uc *GetCheckoutStatusUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (domain.CheckoutStatus, error) {
	return uc.tracker.Status(sessionID), nil
}
