package dto

import (
	"time"

	domainmarket "tahtam/internal/domain/market"
)

type MarketplaceView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	OpenDays []string `json:"open_days"`
}

type MarketplaceCollection struct {
	Items []MarketplaceView `json:"items"`
}

type StallView struct {
	ID            string              `json:"id"`
	MarketplaceID string              `json:"marketplace_id"`
	OwnerID       string              `json:"owner_id"`
	StallNumber   string              `json:"stall_number"`
	ProductTypes  []string            `json:"product_types,omitempty"`
	Prices        map[string]MoneyDTO `json:"prices,omitempty"`
	DefaultPrice  MoneyDTO            `json:"default_price"`
	CreatedAt     time.Time           `json:"created_at"`
}

type StallCollection struct {
	Items []StallView `json:"items"`
}

func NewMarketplaceView(m *domainmarket.Marketplace) MarketplaceView {
	days := make([]string, 0, len(m.OpenDays))
	for _, d := range m.OpenDays {
		days = append(days, string(d))
	}
	return MarketplaceView{ID: string(m.ID), Name: m.Name, OpenDays: days}
}

func NewMarketplaceCollection(items []*domainmarket.Marketplace) MarketplaceCollection {
	views := make([]MarketplaceView, 0, len(items))
	for _, m := range items {
		views = append(views, NewMarketplaceView(m))
	}
	return MarketplaceCollection{Items: views}
}

func NewStallView(s *domainmarket.Stall) StallView {
	var prices map[string]MoneyDTO
	if len(s.Prices) > 0 {
		prices = make(map[string]MoneyDTO, len(s.Prices))
		for day, price := range s.Prices {
			prices[string(day)] = NewMoneyDTO(price)
		}
	}
	return StallView{
		ID:            string(s.ID),
		MarketplaceID: string(s.MarketplaceID),
		OwnerID:       s.OwnerID,
		StallNumber:   s.StallNumber,
		ProductTypes:  s.ProductTypes,
		Prices:        prices,
		DefaultPrice:  NewMoneyDTO(s.DefaultPrice),
		CreatedAt:     s.CreatedAt,
	}
}

func NewStallCollection(items []*domainmarket.Stall) StallCollection {
	views := make([]StallView, 0, len(items))
	for _, s := range items {
		views = append(views, NewStallView(s))
	}
	return StallCollection{Items: views}
}
