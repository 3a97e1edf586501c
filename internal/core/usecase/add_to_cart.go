package usecase

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
)

// AddToCartUseCase - кнопка "купить": +1 к количеству товара.
type AddToCartUseCase struct {
	state   *CartState
	tracker *CheckoutTracker
}

func NewAddToCartUseCase(state *CartState, tracker *CheckoutTracker) *AddToCartUseCase {
	return &AddToCartUseCase{state: state, tracker: tracker}
}

func (uc *AddToCartUseCase) Execute(ctx context.Context, sessionID uuid.UUID, productID int) (domain.CartView, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "AddToCart",
		"session_id": sessionID,
		"product_id": productID,
	})
	ucLogger.Info("Use case started", nil)

	if productID <= 0 {
		ucLogger.Warn("Rejected non-positive product id", nil)
		return domain.CartView{}, domain.ErrInvalidProductID
	}

	cart, err := uc.state.UpdateCart(ctx, sessionID, func(cart domain.Cart) domain.Cart {
		return cart.WithQuantity(productID, cart.Quantity(productID)+1)
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

	ucLogger.Info("Use case finished successfully", port.Fields{"quantity": cart.Quantity(productID)})
	return view, nil
}
