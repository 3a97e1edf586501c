package usecase

import (
	"context"
	"storefront-service/internal/constants"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
)

// LoadCatalogPageUseCase догружает страницу каталога в снимок сессии.
type LoadCatalogPageUseCase struct {
	api      port.StorefrontAPIPort
	state    *CartState
	pageSize int
}

func NewLoadCatalogPageUseCase(api port.StorefrontAPIPort, state *CartState, pageSize int) *LoadCatalogPageUseCase {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	return &LoadCatalogPageUseCase{api: api, state: state, pageSize: pageSize}
}

func (uc *LoadCatalogPageUseCase) Execute(ctx context.Context, sessionID uuid.UUID, page int) (domain.CatalogPage, error) {
	if page < constants.FirstPage {
		page = constants.FirstPage
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "LoadCatalogPage",
		"session_id": sessionID,
		"page":       page,
		"page_size":  uc.pageSize,
	})
	ucLogger.Info("Use case started", nil)

	remote, err := uc.api.GetProductsPage(ctx, page, uc.pageSize)
	if err != nil {
		ucLogger.Error("Failed to fetch products page", err, nil)
		return domain.CatalogPage{}, err
	}

	catalog, added, err := uc.state.MergeCatalogPage(ctx, sessionID, remote.Items)
	if err != nil {
		ucLogger.Error("Failed to merge products page", err, nil)
		return domain.CatalogPage{}, err
	}

	result := domain.CatalogPage{
		Products: catalog.Products(),
		Added:    added,
		Total:    remote.Total,
		Page:     page,
		PageSize: uc.pageSize,
		HasMore:  domain.HasMore(len(remote.Items), uc.pageSize, catalog.Len(), remote.Total),
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"items_returned": len(remote.Items),
		"added":          added,
		"loaded":         result.Loaded(),
		"total":          remote.Total,
		"has_more":       result.HasMore,
	})
	return result, nil
}
