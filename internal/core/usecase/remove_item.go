package usecase

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
)

type RemoveItemUseCase struct {
	setQuantity *SetQuantityUseCase
}

func NewRemoveItemUseCase(setQuantity *SetQuantityUseCase) *RemoveItemUseCase {
	return &RemoveItemUseCase{setQuantity: setQuantity}
}

// Execute эквивалентен установке нулевого количества.
func (uc *RemoveItemUseCase) Execute(ctx context.Context, sessionID uuid.UUID, productID int) (domain.CartView, error) {
	contextkeys.LoggerFromContext(ctx).Info("Removing item from cart", port.Fields{
		"use_case":   "RemoveItem",
		"session_id": sessionID,
		"product_id": productID,
	})
	return uc.setQuantity.Execute(ctx, sessionID, productID, 0)
}
