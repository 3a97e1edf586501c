package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"storefront-service/internal/constants"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// MessagePublisher - то, что адаптеру нужно от производителя pkg-уровня.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// OrderEventsPublisher - реализация OrderEventsPort для RabbitMQ.
type OrderEventsPublisher struct {
	producer   MessagePublisher
	routingKey string
}

func NewOrderEventsPublisher(producer MessagePublisher, routingKey string) (*OrderEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &OrderEventsPublisher{producer: producer, routingKey: routingKey}, nil
}

type orderSubmittedDTO struct {
	EventID     string             `json:"event_id"`
	SessionID   string             `json:"session_id"`
	Phone       string             `json:"phone"`
	Lines       []domain.OrderLine `json:"lines"`
	TotalItems  int                `json:"total_items"`
	TotalPrice  json.Number        `json:"total_price"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

func (a *OrderEventsPublisher) PublishOrderSubmitted(ctx context.Context, event domain.OrderSubmittedEvent) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "OrderEventsPublisher",
		"routing_key": a.routingKey,
		"event_id":    event.EventID,
	})

	body, err := json.Marshal(orderSubmittedDTO{
		EventID:     event.EventID.String(),
		SessionID:   event.SessionID.String(),
		Phone:       event.Phone,
		Lines:       event.Lines,
		TotalItems:  event.TotalItems,
		TotalPrice:  json.Number(event.TotalPrice.String()),
		SubmittedAt: event.SubmittedAt,
	})
	if err != nil {
		adapterLogger.Error("Failed to marshal order submitted event", err, nil)
		return fmt.Errorf("failed to marshal order submitted event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.SubmittedAt,
		MessageId:    event.EventID.String(),
		Headers: amqp.Table{
			"event-type":    constants.EventTypeOrderSubmitted,
			"event-version": constants.EventVersionOrderSubmitted,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	adapterLogger.Debug("Publishing order submitted event", nil)
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish order submitted event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish order event %s: %w", event.EventID, err)
	}

	adapterLogger.Info("Successfully published order submitted event", port.Fields{"total_items": event.TotalItems})
	return nil
}
