package market

import (
	"context"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/middleware"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
)

const deleteMarketplaceKey = "market.delete"

type DeleteMarketplaceCommand struct {
	CommandID       string
	MarketplaceID   string
	IdempotencyKeyV string
}

func (c DeleteMarketplaceCommand) Key() string { return deleteMarketplaceKey }

func (c DeleteMarketplaceCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c DeleteMarketplaceCommand) ResultPrototype() any { return &DeleteMarketplaceResult{} }

type DeleteMarketplaceResult struct {
	MarketplaceID  string `json:"marketplace_id"`
	StallsDeleted  int    `json:"stalls_deleted"`
	RentalsDeleted int    `json:"rentals_deleted"`
}

type DeleteMarketplaceHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle cascades the delete over the market's stalls and their booking lines
// inside one transaction.
func (h *DeleteMarketplaceHandler) Handle(ctx context.Context, cmd DeleteMarketplaceCommand) (*DeleteMarketplaceResult, error) {
	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	marketplace, err := unit.Marketplaces().ByID(ctx, domainmarket.MarketplaceID(cmd.MarketplaceID))
	if err != nil {
		return nil, err
	}
	stalls, err := unit.Stalls().ListByMarketplace(ctx, marketplace.ID, "")
	if err != nil {
		return nil, err
	}

	rentalsDeleted := 0
	for _, s := range stalls {
		n, err := unit.Rentals().DeleteByStall(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		rentalsDeleted += n
		if err := unit.Stalls().Delete(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	if err := unit.Marketplaces().Delete(ctx, marketplace.ID); err != nil {
		return nil, err
	}
	if err := commit(); err != nil {
		return nil, err
	}
	return &DeleteMarketplaceResult{
		MarketplaceID:  string(marketplace.ID),
		StallsDeleted:  len(stalls),
		RentalsDeleted: rentalsDeleted,
	}, nil
}

var _ commands.Handler[DeleteMarketplaceCommand, *DeleteMarketplaceResult] = (*DeleteMarketplaceHandler)(nil)
var _ middleware.IdempotentCommand = DeleteMarketplaceCommand{}
