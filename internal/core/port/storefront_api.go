package port

import (
	"context"
	"storefront-service/internal/core/domain"
)

// StorefrontAPIPort - контракт удаленного API магазина (products/reviews/order).
type StorefrontAPIPort interface {
	GetProductsPage(ctx context.Context, page, pageSize int) (domain.ProductPage, error)
	GetReviews(ctx context.Context) ([]domain.Review, error)
	SubmitOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error)
}
