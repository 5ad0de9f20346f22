package memory

import (
	"context"
	"errors"

	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	RentalRepo      domainrental.Repository
	StallRepo       domainmarket.StallRepository
	MarketplaceRepo domainmarket.MarketplaceRepository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided but
// the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RentalRepo == nil || f.StallRepo == nil || f.MarketplaceRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		rentals:      f.RentalRepo,
		stalls:       f.StallRepo,
		marketplaces: f.MarketplaceRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	rentals      domainrental.Repository
	stalls       domainmarket.StallRepository
	marketplaces domainmarket.MarketplaceRepository
}

func (u *Unit) Rentals() domainrental.Repository {
	return u.rentals
}

func (u *Unit) Stalls() domainmarket.StallRepository {
	return u.stalls
}

func (u *Unit) Marketplaces() domainmarket.MarketplaceRepository {
	return u.marketplaces
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
