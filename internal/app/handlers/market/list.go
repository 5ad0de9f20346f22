package market

import (
	"context"

	"tahtam/internal/app/dto"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/queries"
	"tahtam/internal/app/uow"
)

const listMarketplacesKey = "market.list"

type ListMarketplacesQuery struct{}

func (q ListMarketplacesQuery) Key() string { return listMarketplacesKey }

type ListMarketplacesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListMarketplacesHandler) Handle(ctx context.Context, q ListMarketplacesQuery) (*dto.MarketplaceCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Marketplaces().List(ctx)
	if err != nil {
		return nil, err
	}
	collection := dto.NewMarketplaceCollection(items)
	return &collection, nil
}

var _ queries.Handler[ListMarketplacesQuery, *dto.MarketplaceCollection] = (*ListMarketplacesHandler)(nil)
