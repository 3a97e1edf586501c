package usecase

import (
	"context"
	"storefront-service/internal/constants"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GetStorefrontUseCase собирает данные первой отрисовки: отзывы, первую страницу
// каталога и корзину. Отзывы и каталог запрашиваются параллельно, сбой любого из
// запросов заменяется пустым значением.
type GetStorefrontUseCase struct {
	api      port.StorefrontAPIPort
	state    *CartState
	tracker  *CheckoutTracker
	pageSize int
}

func NewGetStorefrontUseCase(api port.StorefrontAPIPort, state *CartState, tracker *CheckoutTracker, pageSize int) *GetStorefrontUseCase {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	return &GetStorefrontUseCase{api: api, state: state, tracker: tracker, pageSize: pageSize}
}

func (uc *GetStorefrontUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (domain.Storefront, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetStorefront",
		"session_id": sessionID,
	})
	ucLogger.Info("Use case started", nil)

	reviews := []domain.Review{}
	page := domain.ProductPage{Items: []domain.Product{}}

	var g errgroup.Group
	g.Go(func() error {
		fetched, err := uc.api.GetReviews(ctx)
		if err != nil {
			ucLogger.Warn("Reviews are unavailable, rendering without them", port.Fields{"error": err.Error()})
			return nil
		}
		reviews = sanitizeReviews(fetched)
		return nil
	})
	g.Go(func() error {
		fetched, err := uc.api.GetProductsPage(ctx, constants.FirstPage, uc.pageSize)
		if err != nil {
			ucLogger.Warn("Products are unavailable, rendering an empty catalog", port.Fields{"error": err.Error()})
			return nil
		}
		page = fetched
		return nil
	})
	_ = g.Wait()

	catalog, added, err := uc.state.MergeCatalogPage(ctx, sessionID, page.Items)
	if err != nil {
		ucLogger.Error("Failed to merge first products page", err, nil)
		return domain.Storefront{}, err
	}

	cartView, err := buildCartView(ctx, uc.state, uc.tracker, sessionID)
	if err != nil {
		ucLogger.Error("Failed to build cart view", err, nil)
		return domain.Storefront{}, err
	}

	result := domain.Storefront{
		Reviews: reviews,
		Catalog: domain.CatalogPage{
			Products: catalog.Products(),
			Added:    added,
			Total:    page.Total,
			Page:     constants.FirstPage,
			PageSize: uc.pageSize,
			HasMore:  domain.HasMore(len(page.Items), uc.pageSize, catalog.Len(), page.Total),
		},
		Cart: cartView,
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"reviews_count": len(reviews),
		"loaded":        result.Catalog.Loaded(),
		"total":         page.Total,
	})
	return result, nil
}
