package stall

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/middleware"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
	"tahtam/internal/domain/shared/money"
)

const saveStallKey = "stall.save"

// SaveStallCommand creates a stall or replaces an existing one. Prices are
// per-weekday minor units; days without an entry use DefaultPrice.
type SaveStallCommand struct {
	CommandID       string
	StallID         string // empty on create
	MarketplaceID   string
	OwnerID         string
	StallNumber     string
	ProductTypes    []string
	Prices          map[string]int64
	DefaultPrice    int64
	Currency        string
	IdempotencyKeyV string
}

func (c SaveStallCommand) Key() string { return saveStallKey }

func (c SaveStallCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c SaveStallCommand) ResultPrototype() any { return &SaveStallResult{} }

type SaveStallResult struct {
	StallID string `json:"stall_id"`
}

type SaveStallHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
	NewID      func() string
}

func (h *SaveStallHandler) Handle(ctx context.Context, cmd SaveStallCommand) (*SaveStallResult, error) {
	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Marketplaces().ByID(ctx, domainmarket.MarketplaceID(cmd.MarketplaceID)); err != nil {
		return nil, err
	}

	currency := cmd.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	prices := make(domainmarket.PriceTable, len(cmd.Prices))
	for rawDay, amount := range cmd.Prices {
		day, err := domainmarket.ParseWeekday(rawDay)
		if err != nil {
			return nil, err
		}
		price, err := money.New(amount, currency)
		if err != nil {
			return nil, err
		}
		prices[day] = price
	}
	defaultPrice, err := money.New(cmd.DefaultPrice, currency)
	if err != nil {
		return nil, err
	}

	id := cmd.StallID
	createdAt := h.now()
	if id == "" {
		id = h.newID()
	} else {
		existing, err := unit.Stalls().ByID(ctx, domainmarket.StallID(id))
		if err != nil {
			return nil, err
		}
		createdAt = existing.CreatedAt
	}

	stall, err := domainmarket.NewStall(domainmarket.StallID(id), domainmarket.MarketplaceID(cmd.MarketplaceID), cmd.OwnerID, cmd.StallNumber, prices, defaultPrice, createdAt)
	if err != nil {
		return nil, err
	}
	stall.ProductTypes = cmd.ProductTypes

	if err := unit.Stalls().Save(ctx, stall); err != nil {
		return nil, err
	}
	if err := commit(); err != nil {
		return nil, err
	}
	return &SaveStallResult{StallID: id}, nil
}

func (h *SaveStallHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

func (h *SaveStallHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}

var _ commands.Handler[SaveStallCommand, *SaveStallResult] = (*SaveStallHandler)(nil)
var _ middleware.IdempotentCommand = SaveStallCommand{}
