package rental

import (
	"errors"
	"sort"
	"time"

	"tahtam/internal/domain/market"
	"tahtam/internal/domain/shared/money"
)

var (
	ErrNoDates        = errors.New("rental: at least one booking date required")
	ErrNoStalls       = errors.New("rental: at least one stall required")
	ErrTenantRequired = errors.New("rental: tenant identity required")
	ErrWrongMarket    = errors.New("rental: stall does not belong to the marketplace")
)

// BookingRequest describes one batch booking: every requested stall rented on
// every requested date, priced as a single negotiated unit.
type BookingRequest struct {
	Marketplace     *market.Marketplace
	Stalls          []*market.Stall
	Dates           []time.Time
	TenantID        string
	TenantName      string
	Commission      *CommissionTerms
	NegotiatedTotal *money.Money
	Now             time.Time
	NewID           func() string
}

// AssembleBooking expands the request into priced, unpaid booking lines and
// wraps them in their group. Line order is stall-major, date-minor and is the
// order the payment waterfall will use forever after.
//
// The caller must verify availability for every stall/date pair inside the
// same transaction that persists the result.
func AssembleBooking(req BookingRequest) (*Group, error) {
	if req.Marketplace == nil {
		return nil, market.ErrMarketplaceNotFound
	}
	if len(req.Stalls) == 0 {
		return nil, ErrNoStalls
	}
	if len(req.Dates) == 0 {
		return nil, ErrNoDates
	}
	if req.TenantID == "" {
		return nil, ErrTenantRequired
	}

	dates := normalizeDates(req.Dates)
	for _, d := range dates {
		if !req.Marketplace.OpenOn(market.WeekdayOf(d)) {
			return nil, ErrMarketClosed
		}
	}
	for _, s := range req.Stalls {
		if s.MarketplaceID != req.Marketplace.ID {
			return nil, ErrWrongMarket
		}
	}

	listPrices := make([]money.Money, 0, len(req.Stalls)*len(dates))
	for _, s := range req.Stalls {
		for _, d := range dates {
			listPrices = append(listPrices, s.PriceFor(d))
		}
	}
	finals, err := Prorate(listPrices, req.NegotiatedTotal)
	if err != nil {
		return nil, err
	}

	var groupID GroupID
	if len(listPrices) > 1 {
		groupID = GroupID(req.NewID())
	}

	lines := make([]*Line, 0, len(listPrices))
	i := 0
	for _, s := range req.Stalls {
		for _, d := range dates {
			line, err := NewLine(LineParams{
				ID:            LineID(req.NewID()),
				StallID:       s.ID,
				StallNumber:   s.StallNumber,
				MarketplaceID: s.MarketplaceID,
				Date:          d,
				TenantID:      req.TenantID,
				TenantName:    req.TenantName,
				OwnerID:       s.OwnerID,
				GroupID:       groupID,
				ListPrice:     listPrices[i],
				FinalPrice:    finals[i],
				Commission:    req.Commission,
				CreatedAt:     req.Now,
			})
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
			i++
		}
	}

	group, err := NewGroup(groupID, lines)
	if err != nil {
		return nil, err
	}
	eventID := groupID
	if eventID == "" {
		eventID = GroupID(lines[0].ID)
	}
	group.Record(BookingGroupCreated{
		GroupID:    eventID,
		TenantID:   req.TenantID,
		TenantName: req.TenantName,
		LineCount:  len(lines),
		Total:      group.FinalPrice(),
		Managed:    req.Commission != nil,
		At:         req.Now.UTC(),
	})
	return group, nil
}

func normalizeDates(in []time.Time) []time.Time {
	seen := make(map[string]bool, len(in))
	out := make([]time.Time, 0, len(in))
	for _, d := range in {
		day := DateOnly(d)
		key := DateKey(day)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
