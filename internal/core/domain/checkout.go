package domain

// CheckoutState - состояние оформления заказа в рамках сессии.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutSuccess    CheckoutState = "success"
	CheckoutFailed     CheckoutState = "failed"
)

// Сообщения, которые видит покупатель.
const (
	MessageOrderPlaced       = "Заказ успешно оформлен!"
	MessageOrderRejected     = "Ошибка при оформлении заказа"
	MessageConnectionFailure = "Ошибка соединения с сервером"
)

// OrderResult - итог последней попытки, хранится только для показа.
type OrderResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutStatus - текущее состояние и результат последней попытки (если был).
type CheckoutStatus struct {
	State  CheckoutState `json:"state"`
	Result *OrderResult  `json:"result,omitempty"`
}

// IdleStatus - статус сессии, которая еще ничего не отправляла.
func IdleStatus() CheckoutStatus {
	return CheckoutStatus{State: CheckoutIdle}
}
