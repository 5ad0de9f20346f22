package stall

import (
	"context"

	"tahtam/internal/app/dto"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/queries"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
)

const (
	listByMarketplaceKey = "stall.list_by_marketplace"
	listByOwnerKey       = "stall.list_by_owner"
)

// ListByMarketplaceQuery lists stalls of one market; OwnerID narrows the
// result to one owner's stalls when set.
type ListByMarketplaceQuery struct {
	MarketplaceID string
	OwnerID       string
}

func (q ListByMarketplaceQuery) Key() string { return listByMarketplaceKey }

type ListByMarketplaceHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListByMarketplaceHandler) Handle(ctx context.Context, q ListByMarketplaceQuery) (*dto.StallCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	stalls, err := unit.Stalls().ListByMarketplace(ctx, domainmarket.MarketplaceID(q.MarketplaceID), q.OwnerID)
	if err != nil {
		return nil, err
	}
	collection := dto.NewStallCollection(stalls)
	return &collection, nil
}

type ListByOwnerQuery struct {
	OwnerID string
}

func (q ListByOwnerQuery) Key() string { return listByOwnerKey }

type ListByOwnerHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListByOwnerHandler) Handle(ctx context.Context, q ListByOwnerQuery) (*dto.StallCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	stalls, err := unit.Stalls().ListByOwner(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}
	collection := dto.NewStallCollection(stalls)
	return &collection, nil
}

var _ queries.Handler[ListByMarketplaceQuery, *dto.StallCollection] = (*ListByMarketplaceHandler)(nil)
var _ queries.Handler[ListByOwnerQuery, *dto.StallCollection] = (*ListByOwnerHandler)(nil)
