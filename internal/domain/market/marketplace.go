package market

import (
	"context"
	"errors"
)

var (
	ErrMarketplaceNotFound = errors.New("market: marketplace not found")
	ErrNoOpenDays          = errors.New("market: marketplace must be open on at least one day")
	ErrNameRequired        = errors.New("market: marketplace name required")
)

type MarketplaceID string

// Marketplace is a physical market operating on a fixed set of weekdays.
type Marketplace struct {
	ID       MarketplaceID
	Name     string
	OpenDays []Weekday
}

// NewMarketplace validates and builds a marketplace. An empty open-day set is
// rejected: a market closed every day cannot host any booking.
func NewMarketplace(id MarketplaceID, name string, openDays []Weekday) (*Marketplace, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(openDays) == 0 {
		return nil, ErrNoOpenDays
	}
	seen := make(map[Weekday]bool, len(openDays))
	days := make([]Weekday, 0, len(openDays))
	for _, d := range openDays {
		if !d.Valid() {
			return nil, ErrInvalidWeekday
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return &Marketplace{ID: id, Name: name, OpenDays: days}, nil
}

// OpenOn reports whether the market operates on the given weekday.
func (m *Marketplace) OpenOn(day Weekday) bool {
	for _, d := range m.OpenDays {
		if d == day {
			return true
		}
	}
	return false
}

// MarketplaceRepository is the persistence port for marketplaces.
type MarketplaceRepository interface {
	ByID(ctx context.Context, id MarketplaceID) (*Marketplace, error)
	Save(ctx context.Context, m *Marketplace) error
	Delete(ctx context.Context, id MarketplaceID) error
	List(ctx context.Context) ([]*Marketplace, error)
}
