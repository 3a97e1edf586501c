package usecase

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
)

type SetPhoneUseCase struct {
	state   *CartState
	tracker *CheckoutTracker
}

func NewSetPhoneUseCase(state *CartState, tracker *CheckoutTracker) *SetPhoneUseCase {
	return &SetPhoneUseCase{state: state, tracker: tracker}
}

// Execute сохраняет телефон без нормализации: формат отображения не ограничен.
func (uc *SetPhoneUseCase) Execute(ctx context.Context, sessionID uuid.UUID, phone string) (domain.CartView, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SetPhone",
		"session_id": sessionID,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.state.SetPhone(ctx, sessionID, phone); err != nil {
		ucLogger.Error("Failed to save phone", err, nil)
		return domain.CartView{}, err
	}

	view, err := buildCartView(ctx, uc.state, uc.tracker, sessionID)
	if err != nil {
		ucLogger.Error("Failed to build cart view", err, nil)
		return domain.CartView{}, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return view, nil
}
