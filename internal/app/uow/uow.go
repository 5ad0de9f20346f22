package uow

import (
	"context"

	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Rentals() domainrental.Repository
	Stalls() domainmarket.StallRepository
	Marketplaces() domainmarket.MarketplaceRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
