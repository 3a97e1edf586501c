package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"sync"

	"github.com/google/uuid"
)

// ClientChannel - канал, через который события уходят одному SSE-соединению (одной вкладке).
type ClientChannel chan []byte

const clientBufferSize = 32

// SSENotifier подписывается на шину корзины и раздает события
// открытым SSE-соединениям соответствующей сессии.
type SSENotifier struct {
	// clients: ключ - id сессии, значение - каналы всех вкладок этой сессии
	clients map[uuid.UUID][]ClientChannel
	mu      sync.RWMutex

	logger port.LoggerPort
}

func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	return &SSENotifier{
		clients: make(map[uuid.UUID][]ClientChannel),
		logger:  baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
}

type cartEventPayload struct {
	Cart     map[string]int   `json:"cart"`
	Products []productPayload `json:"products"`
}

type productPayload struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	ImageURL    string      `json:"image_url"`
}

// FormatEvent превращает событие корзины в кадр SSE.
func FormatEvent(event domain.CartEvent) ([]byte, error) {
	payload := cartEventPayload{
		Cart:     make(map[string]int, len(event.Cart)),
		Products: make([]productPayload, len(event.Products)),
	}
	for id, qty := range event.Cart {
		payload.Cart[fmt.Sprint(id)] = qty
	}
	for i, p := range event.Products {
		payload.Products[i] = productPayload{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Price:       json.Number(p.Price.String()),
			ImageURL:    p.ImageURL,
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data)), nil
}

// OnCartUpdate реализует port.CartListener. Отправка в каналы неблокирующая:
// медленная вкладка пропускает событие, но не тормозит шину.
func (n *SSENotifier) OnCartUpdate(ctx context.Context, event domain.CartEvent) {
	eventLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "SSENotifier",
		"event_type": event.Type,
		"session_id": event.SessionID,
	})

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels, found := n.clients[event.SessionID]
	if !found {
		eventLogger.Debug("No active clients for session, event dropped.", nil)
		return
	}

	message, err := FormatEvent(event)
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}

	for _, ch := range channels {
		select {
		case ch <- message:
		default:
			eventLogger.Warn("Client channel is full, skipping.", nil)
		}
	}
	eventLogger.Debug("Event dispatched to clients", port.Fields{"channels_count": len(channels)})
}

// AddClient регистрирует новое SSE-соединение сессии.
func (n *SSENotifier) AddClient(sessionID uuid.UUID) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientBufferSize)
	n.clients[sessionID] = append(n.clients[sessionID], ch)

	n.logger.Info("Client connected for session", port.Fields{
		"session_id":                    sessionID,
		"total_connections_for_session": len(n.clients[sessionID]),
	})
	return ch
}

// RemoveClient удаляет канал при закрытии соединения.
func (n *SSENotifier) RemoveClient(sessionID uuid.UUID, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, found := n.clients[sessionID]
	if !found {
		return
	}

	remaining := make([]ClientChannel, 0, len(channels))
	for _, c := range channels {
		if c != ch {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 {
		delete(n.clients, sessionID)
	} else {
		n.clients[sessionID] = remaining
	}

	n.logger.Info("Client disconnected for session", port.Fields{
		"session_id":            sessionID,
		"remaining_connections": len(remaining),
	})
}

// ClientsCount - количество соединений сессии.
func (n *SSENotifier) ClientsCount(sessionID uuid.UUID) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients[sessionID])
}
