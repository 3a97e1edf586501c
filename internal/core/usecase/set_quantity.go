package usecase

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
)

type SetQuantityUseCase struct {
	state   *CartState
	tracker *CheckoutTracker
}

func NewSetQuantityUseCase(state *CartState, tracker *CheckoutTracker) *SetQuantityUseCase {
	return &SetQuantityUseCase{state: state, tracker: tracker}
}

// Execute устанавливает количество товара. Отрицательное количество приводится к 0,
// а 0 удаляет позицию.
func (uc *SetQuantityUseCase) Execute(ctx context.Context, sessionID uuid.UUID, productID, quantity int) (domain.CartView, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SetQuantity",
		"session_id": sessionID,
		"product_id": productID,
		"quantity":   quantity,
	})
	ucLogger.Info("Use case started", nil)

	if productID <= 0 {
		ucLogger.Warn("Rejected non-positive product id", nil)
		return domain.CartView{}, domain.ErrInvalidProductID
	}
	if quantity < 0 {
		quantity = 0
	}

	_, err := uc.state.UpdateCart(ctx, sessionID, func(cart domain.Cart) domain.Cart {
		return cart.WithQuantity(productID, quantity)
	})
	if err != nil {
		ucLogger.Error("Failed to update cart", err, nil)
		return domain.CartView{}, err
	}

	view, err := buildCartView(ctx, uc.state, uc.tracker, sessionID)
	if err != nil {
		ucLogger.Error("Failed to build cart view", err, nil)
		return domain.CartView{}, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"total_items": view.TotalItems})
	return view, nil
}
