package domain

import "github.com/google/uuid"

// EventCartUpdated - имя события синхронизации корзины между виджетами.
const EventCartUpdated = "cartUpdate"

// CartEvent - полезная нагрузка шины: полная корзина и текущий снимок каталога.
type CartEvent struct {
	Type      string
	SessionID uuid.UUID
	Cart      Cart
	Products  []Product
}
