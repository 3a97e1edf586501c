package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine - одна строка заказа в формате удаленного API.
type OrderLine struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// OrderRequest строится только в момент отправки и нигде не сохраняется.
type OrderRequest struct {
	Phone string
	Lines []OrderLine
}

// NewOrderRequest превращает корзину и телефон в заказ.
// В телефоне остаются только цифры, строки упорядочены по id.
func NewOrderRequest(rawPhone string, cart Cart) OrderRequest {
	lines := make([]OrderLine, 0, len(cart))
	for _, id := range cart.ProductIDs() {
		lines = append(lines, OrderLine{ID: id, Quantity: cart[id]})
	}
	return OrderRequest{
		Phone: NormalizePhone(rawPhone),
		Lines: lines,
	}
}

// NormalizePhone оставляет в строке только цифры 0-9.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OrderReply - разобранный ответ POST /order.
type OrderReply struct {
	Success   bool
	ErrorText string
}

// OrderSubmittedEvent публикуется во внешнюю шину после успешного заказа.
type OrderSubmittedEvent struct {
	EventID     uuid.UUID       `json:"event_id"`
	SessionID   uuid.UUID       `json:"session_id"`
	Phone       string          `json:"phone"`
	Lines       []OrderLine     `json:"lines"`
	TotalItems  int             `json:"total_items"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
