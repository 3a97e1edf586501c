package usecase

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
)

type GetCartUseCase struct {
	state   *CartState
	tracker *CheckoutTracker
}

func NewGetCartUseCase(state *CartState, tracker *CheckoutTracker) *GetCartUseCase {
	return &GetCartUseCase{state: state, tracker: tracker}
}

func (uc *GetCartUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (domain.CartView, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetCart",
		"session_id": sessionID,
	})
	ucLogger.Debug("Use case started", nil)

	view, err := buildCartView(ctx, uc.state, uc.tracker, sessionID)
	if err != nil {
		ucLogger.Error("Failed to load session state", err, nil)
		return domain.CartView{}, err
	}

	ucLogger.Debug("Use case finished successfully", port.Fields{"total_items": view.TotalItems})
	return view, nil
}

// buildCartView перечитывает сохраненное состояние сессии и собирает представление корзины.
func buildCartView(ctx context.Context, state *CartState, tracker *CheckoutTracker, sessionID uuid.UUID) (domain.CartView, error) {
	snapshot, err := state.Load(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	return domain.NewCartView(snapshot.Cart, snapshot.Catalog, snapshot.Phone, tracker.Status(sessionID)), nil
}
