package usecase

import (
	"context"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmitOrderUseCase - оформление заказа.
// Idle -> Submitting -> {Success, Failed}; следующая попытка начинает цикл заново.
type SubmitOrderUseCase struct {
	api     port.StorefrontAPIPort
	state   *CartState
	tracker *CheckoutTracker
	events  port.OrderEventsPort
}

func NewSubmitOrderUseCase(api port.StorefrontAPIPort, state *CartState, tracker *CheckoutTracker, events port.OrderEventsPort) *SubmitOrderUseCase {
	return &SubmitOrderUseCase{api: api, state: state, tracker: tracker, events: events}
}

func (uc *SubmitOrderUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (domain.CheckoutStatus, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SubmitOrder",
		"session_id": sessionID,
	})
	ucLogger.Info("Use case started", nil)

	snapshot, err := uc.state.Load(ctx, sessionID)
	if err != nil {
		ucLogger.Error("Failed to load session state", err, nil)
		return domain.CheckoutStatus{}, err
	}

	// Пустая корзина или пустой телефон - ничего не делаем
	if snapshot.Cart.IsEmpty() || strings.TrimSpace(snapshot.Phone) == "" {
		ucLogger.Info("Checkout preconditions are not met, nothing to submit", port.Fields{
			"cart_empty":  snapshot.Cart.IsEmpty(),
			"phone_empty": strings.TrimSpace(snapshot.Phone) == "",
		})
		return uc.tracker.Status(sessionID), nil
	}

	if !uc.tracker.TryBegin(sessionID) {
		ucLogger.Warn("Checkout is already in progress", nil)
		return uc.tracker.Status(sessionID), domain.ErrCheckoutInProgress
	}

	// Уже отправленный заказ не отменяется, даже если клиент отключился
	callCtx := context.WithoutCancel(ctx)

	result := domain.OrderResult{Success: false, Message: domain.MessageConnectionFailure}
	defer func() {
		status := uc.tracker.Finish(sessionID, result)
		ucLogger.Info("Use case finished", port.Fields{"state": status.State})
	}()

	order := domain.NewOrderRequest(snapshot.Phone, snapshot.Cart)
	ucLogger.Debug("Submitting order", port.Fields{"lines": len(order.Lines)})

	reply, err := uc.api.SubmitOrder(callCtx, order)
	if err != nil {
		ucLogger.Error("Order submission failed", err, nil)
		return domain.CheckoutStatus{State: domain.CheckoutFailed, Result: &result}, nil
	}

	if !reply.Success {
		result.Message = domain.MessageOrderRejected
		if reply.ErrorText != "" {
			result.Message = reply.ErrorText
		}
		ucLogger.Warn("Order was rejected by the storefront API", port.Fields{"reason": reply.ErrorText})
		return domain.CheckoutStatus{State: domain.CheckoutFailed, Result: &result}, nil
	}

	result = domain.OrderResult{Success: true, Message: domain.MessageOrderPlaced}

	if err := uc.state.Clear(callCtx, sessionID); err != nil {
		// Заказ уже принят, поэтому итог остается успешным
		ucLogger.Error("Order placed but cart could not be cleared", err, nil)
	}

	uc.publishOrderSubmitted(callCtx, ucLogger, sessionID, order, snapshot)

	return domain.CheckoutStatus{State: domain.CheckoutSuccess, Result: &result}, nil
}

func (uc *SubmitOrderUseCase) publishOrderSubmitted(ctx context.Context, logger port.LoggerPort, sessionID uuid.UUID, order domain.OrderRequest, snapshot SessionSnapshot) {
	if uc.events == nil {
		return
	}

	event := domain.OrderSubmittedEvent{
		EventID:     uuid.New(),
		SessionID:   sessionID,
		Phone:       order.Phone,
		Lines:       order.Lines,
		TotalItems:  snapshot.Cart.TotalItems(),
		TotalPrice:  snapshot.Cart.TotalPrice(snapshot.Catalog),
		SubmittedAt: time.Now().UTC(),
	}
	if err := uc.events.PublishOrderSubmitted(ctx, event); err != nil {
		logger.Error("Failed to publish order submitted event", err, port.Fields{"event_id": event.EventID})
	}
}
