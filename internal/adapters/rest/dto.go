package rest

import (
	"encoding/json"
	"storefront-service/internal/core/domain"
)

// --- Запросы ---

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
}

// SetQuantityRequest - quantity разбирается вручную: нечисло и отрицательное значение дают 0.
type SetQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

type SetPhoneRequest struct {
	Phone string `json:"phone"`
}

// --- Ответы ---

type ProductResponse struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Price        json.Number `json:"price"`
	PriceDisplay string      `json:"price_display"`
	ImageURL     string      `json:"image_url"`
}

type CartLineResponse struct {
	ProductID        int         `json:"product_id"`
	Title            string      `json:"title"`
	Price            json.Number `json:"price"`
	Quantity         int         `json:"quantity"`
	LineTotal        json.Number `json:"line_total"`
	LineTotalDisplay string      `json:"line_total_display"`
	Known            bool        `json:"known"`
}

type OrderResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CheckoutStatusResponse struct {
	State  string               `json:"state"`
	Result *OrderResultResponse `json:"result,omitempty"`
}

type CartResponse struct {
	Lines             []CartLineResponse     `json:"lines"`
	TotalItems        int                    `json:"total_items"`
	TotalPrice        json.Number            `json:"total_price"`
	TotalPriceDisplay string                 `json:"total_price_display"`
	Phone             string                 `json:"phone"`
	Checkout          CheckoutStatusResponse `json:"checkout"`
}

type CatalogPageResponse struct {
	Products    []ProductResponse `json:"products"`
	Added       int               `json:"added"`
	Total       int               `json:"total"`
	Loaded      int               `json:"loaded"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	HasMore     bool              `json:"has_more"`
	CounterText string            `json:"counter_text"`
}

type ReviewResponse struct {
	ID     int      `json:"id"`
	Author string   `json:"author"`
	Text   string   `json:"text"`
	Rating int      `json:"rating"`
	Date   string   `json:"date,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

type StorefrontResponse struct {
	Reviews     []ReviewResponse  `json:"reviews"`
	Products    []ProductResponse `json:"products"`
	Total       int               `json:"total"`
	Loaded      int               `json:"loaded"`
	HasMore     bool              `json:"has_more"`
	CounterText string            `json:"counter_text"`
	Cart        CartResponse      `json:"cart"`
}

// --- Маппинг домен -> DTO ---

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Price:        json.Number(p.Price.String()),
			PriceDisplay: FormatPrice(p.Price),
			ImageURL:     p.ImageURL,
		}
	}
	return out
}

func toCheckoutStatusResponse(status domain.CheckoutStatus) CheckoutStatusResponse {
	resp := CheckoutStatusResponse{State: string(status.State)}
	if resp.State == "" {
		resp.State = string(domain.CheckoutIdle)
	}
	if status.Result != nil {
		resp.Result = &OrderResultResponse{Success: status.Result.Success, Message: status.Result.Message}
	}
	return resp
}

func toCartResponse(view domain.CartView) CartResponse {
	lines := make([]CartLineResponse, len(view.Lines))
	for i, l := range view.Lines {
		lines[i] = CartLineResponse{
			ProductID:        l.ProductID,
			Title:            l.Title,
			Price:            json.Number(l.Price.String()),
			Quantity:         l.Quantity,
			LineTotal:        json.Number(l.LineTotal.String()),
			LineTotalDisplay: FormatPrice(l.LineTotal),
			Known:            l.Known,
		}
	}
	return CartResponse{
		Lines:             lines,
		TotalItems:        view.TotalItems,
		TotalPrice:        json.Number(view.TotalPrice.String()),
		TotalPriceDisplay: FormatPrice(view.TotalPrice),
		Phone:             view.Phone,
		Checkout:          toCheckoutStatusResponse(view.Checkout),
	}
}

func toCatalogPageResponse(page domain.CatalogPage) CatalogPageResponse {
	return CatalogPageResponse{
		Products:    toProductResponses(page.Products),
		Added:       page.Added,
		Total:       page.Total,
		Loaded:      page.Loaded(),
		Page:        page.Page,
		PageSize:    page.PageSize,
		HasMore:     page.HasMore,
		CounterText: CounterText(page.Loaded(), page.Total, page.HasMore),
	}
}

func toReviewResponses(reviews []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = ReviewResponse{
			ID:     r.ID,
			Author: r.Author,
			Text:   r.Text,
			Rating: r.Rating,
			Date:   r.Date,
			Tags:   r.Tags,
		}
	}
	return out
}

func toStorefrontResponse(sf domain.Storefront) StorefrontResponse {
	return StorefrontResponse{
		Reviews:     toReviewResponses(sf.Reviews),
		Products:    toProductResponses(sf.Catalog.Products),
		Total:       sf.Catalog.Total,
		Loaded:      sf.Catalog.Loaded(),
		HasMore:     sf.Catalog.HasMore,
		CounterText: CounterText(sf.Catalog.Loaded(), sf.Catalog.Total, sf.Catalog.HasMore),
		Cart:        toCartResponse(sf.Cart),
	}
}
