package market

import (
	"context"
	"errors"
	"time"

	"tahtam/internal/domain/shared/money"
)

var (
	ErrStallNotFound      = errors.New("market: stall not found")
	ErrStallNumberMissing = errors.New("market: stall number required")
	ErrNegativePrice      = errors.New("market: stall prices cannot be negative")
)

type StallID string

// PriceTable holds per-weekday list prices. The table is sparse: days without
// an explicit entry fall back to the stall's default price.
type PriceTable map[Weekday]money.Money

// Stall is a rentable spot inside a marketplace, owned by a single user.
type Stall struct {
	ID            StallID
	MarketplaceID MarketplaceID
	OwnerID       string
	StallNumber   string
	ProductTypes  []string
	Prices        PriceTable
	DefaultPrice  money.Money
	CreatedAt     time.Time
}

// NewStall validates and builds a stall.
func NewStall(id StallID, marketID MarketplaceID, ownerID, number string, prices PriceTable, defaultPrice money.Money, createdAt time.Time) (*Stall, error) {
	if number == "" {
		return nil, ErrStallNumberMissing
	}
	if defaultPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	for day, price := range prices {
		if !day.Valid() {
			return nil, ErrInvalidWeekday
		}
		if price.IsNegative() {
			return nil, ErrNegativePrice
		}
	}
	return &Stall{
		ID:            id,
		MarketplaceID: marketID,
		OwnerID:       ownerID,
		StallNumber:   number,
		Prices:        prices,
		DefaultPrice:  defaultPrice,
		CreatedAt:     createdAt.UTC(),
	}, nil
}

// PriceFor resolves the list price for a calendar date, falling back to the
// default price when the weekday has no explicit entry.
func (s *Stall) PriceFor(date time.Time) money.Money {
	day := WeekdayOf(date)
	if price, ok := s.Prices[day]; ok {
		return price
	}
	return s.DefaultPrice
}

// StallRepository is the persistence port for stalls.
type StallRepository interface {
	ByID(ctx context.Context, id StallID) (*Stall, error)
	Save(ctx context.Context, s *Stall) error
	Delete(ctx context.Context, id StallID) error
	ListByMarketplace(ctx context.Context, marketID MarketplaceID, ownerID string) ([]*Stall, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Stall, error)
}
