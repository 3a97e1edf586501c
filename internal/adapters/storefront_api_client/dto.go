package storefront_api_client

import (
	"github.com/shopspring/decimal"
)

// ProductResponse - товар в формате удаленного API.
type ProductResponse struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
}

// ProductsPageResponse - ответ GET /products.
type ProductsPageResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// ReviewResponse - отзыв в формате удаленного API.
type ReviewResponse struct {
	ID     int      `json:"id"`
	Text   string   `json:"text"`
	Author *string  `json:"author"`
	Rating *float64 `json:"rating"`
	Date   *string  `json:"date"`
	Tags   []string `json:"tags"`
}

// OrderLineRequest - строка заказа.
type OrderLineRequest struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// OrderRequest - тело POST /order.
type OrderRequest struct {
	Phone string             `json:"phone"`
	Cart  []OrderLineRequest `json:"cart"`
}

// OrderResponse - ответ POST /order. success приходит как 0|1,
// но некоторые стенды отвечают булевым значением. Если поля нет,
// заказ считается отклоненным.
type OrderResponse struct {
	Success interface{} `json:"success"`
	Error   *string     `json:"error"`
}

func (r OrderResponse) isSuccess() bool {
	switch v := r.Success.(type) {
	case float64:
		return v == 1
	case bool:
		return v
	default:
		return false
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
