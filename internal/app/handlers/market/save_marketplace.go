package market

import (
	"context"

	"github.com/google/uuid"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/middleware"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
)

const saveMarketplaceKey = "market.save"

type SaveMarketplaceCommand struct {
	CommandID       string
	MarketplaceID   string // empty on create
	Name            string
	OpenDays        []string
	IdempotencyKeyV string
}

func (c SaveMarketplaceCommand) Key() string { return saveMarketplaceKey }

func (c SaveMarketplaceCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c SaveMarketplaceCommand) ResultPrototype() any { return &SaveMarketplaceResult{} }

type SaveMarketplaceResult struct {
	MarketplaceID string `json:"marketplace_id"`
}

type SaveMarketplaceHandler struct {
	UoWFactory uow.UoWFactory
	NewID      func() string
}

func (h *SaveMarketplaceHandler) Handle(ctx context.Context, cmd SaveMarketplaceCommand) (*SaveMarketplaceResult, error) {
	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	days := make([]domainmarket.Weekday, 0, len(cmd.OpenDays))
	for _, raw := range cmd.OpenDays {
		day, err := domainmarket.ParseWeekday(raw)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	id := cmd.MarketplaceID
	if id == "" {
		id = h.newID()
	} else if _, err := unit.Marketplaces().ByID(ctx, domainmarket.MarketplaceID(id)); err != nil {
		return nil, err
	}

	marketplace, err := domainmarket.NewMarketplace(domainmarket.MarketplaceID(id), cmd.Name, days)
	if err != nil {
		return nil, err
	}
	if err := unit.Marketplaces().Save(ctx, marketplace); err != nil {
		return nil, err
	}
	if err := commit(); err != nil {
		return nil, err
	}
	return &SaveMarketplaceResult{MarketplaceID: id}, nil
}

func (h *SaveMarketplaceHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}

var _ commands.Handler[SaveMarketplaceCommand, *SaveMarketplaceResult] = (*SaveMarketplaceHandler)(nil)
var _ middleware.IdempotentCommand = SaveMarketplaceCommand{}
