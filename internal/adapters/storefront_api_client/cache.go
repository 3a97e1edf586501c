package storefront_api_client

import (
	"context"
	"storefront-service/internal/constants"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"sync"
	"time"
)

// CachedClient кэширует отзывы и первую страницу каталога на заданное время.
// Следующие страницы и заказы всегда уходят напрямую. Ошибки не кэшируются.
type CachedClient struct {
	next        port.StorefrontAPIPort
	reviewsTTL  time.Duration
	productsTTL time.Duration
	now         func() time.Time

	mu           sync.Mutex
	reviews      []domain.Review
	reviewsUntil time.Time
	pages        map[pageKey]cachedPage
}

type pageKey struct {
	page     int
	pageSize int
}

type cachedPage struct {
	page  domain.ProductPage
	until time.Time
}

// NewCachedClient оборачивает клиента. TTL <= 0 отключает соответствующий кэш.
func NewCachedClient(next port.StorefrontAPIPort, reviewsTTL, productsTTL time.Duration) *CachedClient {
	return &CachedClient{
		next:        next,
		reviewsTTL:  reviewsTTL,
		productsTTL: productsTTL,
		now:         time.Now,
		pages:       make(map[pageKey]cachedPage),
	}
}

func (c *CachedClient) GetProductsPage(ctx context.Context, page, pageSize int) (domain.ProductPage, error) {
	if c.productsTTL <= 0 || page != constants.FirstPage {
		return c.next.GetProductsPage(ctx, page, pageSize)
	}

	key := pageKey{page: page, pageSize: pageSize}
	c.mu.Lock()
	cached, ok := c.pages[key]
	c.mu.Unlock()
	if ok && c.now().Before(cached.until) {
		return copyPage(cached.page), nil
	}

	fetched, err := c.next.GetProductsPage(ctx, page, pageSize)
	if err != nil {
		return domain.ProductPage{}, err
	}

	c.mu.Lock()
	c.pages[key] = cachedPage{page: copyPage(fetched), until: c.now().Add(c.productsTTL)}
	c.mu.Unlock()
	return fetched, nil
}

func (c *CachedClient) GetReviews(ctx context.Context) ([]domain.Review, error) {
	if c.reviewsTTL <= 0 {
		return c.next.GetReviews(ctx)
	}

	c.mu.Lock()
	if c.reviews != nil && c.now().Before(c.reviewsUntil) {
		out := append([]domain.Review(nil), c.reviews...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	fetched, err := c.next.GetReviews(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.reviews = append(make([]domain.Review, 0, len(fetched)), fetched...)
	c.reviewsUntil = c.now().Add(c.reviewsTTL)
	c.mu.Unlock()
	return fetched, nil
}

func (c *CachedClient) SubmitOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
	return c.next.SubmitOrder(ctx, order)
}

func copyPage(p domain.ProductPage) domain.ProductPage {
	return domain.ProductPage{
		Items: append([]domain.Product(nil), p.Items...),
		Total: p.Total,
	}
}
