package rental

import (
	"errors"
	"time"

	"tahtam/internal/domain/market"
	"tahtam/internal/domain/shared/money"
)

// PaidTolerance is the settlement tolerance ε in minor units: a line whose
// paid amount is within 10 kuruş of its final price counts as fully paid.
const PaidTolerance = 10

type LineID string

type GroupID string

// Line is one stall reserved for one calendar date, the unit of persistence
// and of payment allocation ("rental" in the store).
type Line struct {
	ID            LineID
	StallID       market.StallID
	StallNumber   string
	MarketplaceID market.MarketplaceID
	Date          time.Time
	DateString    string
	TenantID      string
	TenantName    string
	OwnerID       string
	ManagerID     string
	GroupID       GroupID

	// ListPrice is informational after creation; FinalPrice is what is owed.
	ListPrice  money.Money
	FinalPrice money.Money
	PaidAmount money.Money
	IsPaid     bool

	IsManaged        bool
	CommissionRate   float64
	CommissionAmount money.Money
	OwnerRevenue     money.Money

	CreatedAt time.Time
}

// LineParams carries everything needed to build a priced line.
type LineParams struct {
	ID            LineID
	StallID       market.StallID
	StallNumber   string
	MarketplaceID market.MarketplaceID
	Date          time.Time
	TenantID      string
	TenantName    string
	OwnerID       string
	GroupID       GroupID
	ListPrice     money.Money
	FinalPrice    money.Money
	Commission    *CommissionTerms
	CreatedAt     time.Time
}

// NewLine validates params, splits the commission, and returns an unpaid line.
func NewLine(p LineParams) (*Line, error) {
	if p.ID == "" {
		return nil, errors.New("rental: line id required")
	}
	if p.StallID == "" || p.MarketplaceID == "" {
		return nil, errors.New("rental: stall and marketplace ids required")
	}
	if p.TenantID == "" {
		return nil, errors.New("rental: tenant id required")
	}
	if p.ListPrice.IsNegative() {
		return nil, &InvalidPriceError{Reason: "list price cannot be negative", Amount: p.ListPrice}
	}
	if p.FinalPrice.IsNegative() {
		return nil, &InvalidPriceError{Reason: "final price cannot be negative", Amount: p.FinalPrice}
	}
	split, err := SplitCommission(p.FinalPrice, p.Commission != nil, ratePercent(p.Commission))
	if err != nil {
		return nil, err
	}
	date := DateOnly(p.Date)
	l := &Line{
		ID:               p.ID,
		StallID:          p.StallID,
		StallNumber:      p.StallNumber,
		MarketplaceID:    p.MarketplaceID,
		Date:             date,
		DateString:       DateKey(date),
		TenantID:         p.TenantID,
		TenantName:       p.TenantName,
		OwnerID:          p.OwnerID,
		GroupID:          p.GroupID,
		ListPrice:        p.ListPrice,
		FinalPrice:       p.FinalPrice,
		PaidAmount:       money.Zero(p.FinalPrice.Currency),
		IsManaged:        p.Commission != nil,
		CommissionAmount: split.Commission,
		OwnerRevenue:     split.OwnerRevenue,
		CreatedAt:        p.CreatedAt.UTC(),
	}
	if p.Commission != nil {
		l.ManagerID = p.Commission.ManagerID
		l.CommissionRate = p.Commission.RatePercent
	}
	l.refreshPaidFlag()
	return l, nil
}

// Outstanding returns the unpaid remainder of the line, never negative.
func (l *Line) Outstanding() money.Money {
	rest := l.FinalPrice.Amount - l.PaidAmount.Amount
	if rest < 0 {
		rest = 0
	}
	return money.Money{Amount: rest, Currency: l.FinalPrice.Currency}
}

// collect pays up to avail against the line's debt and returns what was applied.
// A line pushed within tolerance of its final price snaps to exactly paid-in-full.
func (l *Line) collect(avail money.Money) money.Money {
	debt := l.Outstanding()
	if debt.IsZero() || !avail.IsPositive() {
		return money.Zero(l.FinalPrice.Currency)
	}
	applied := money.Min(debt, avail)
	l.PaidAmount.Amount += applied.Amount
	if l.PaidAmount.Amount >= l.FinalPrice.Amount-PaidTolerance {
		l.PaidAmount.Amount = l.FinalPrice.Amount
	}
	l.refreshPaidFlag()
	return applied
}

// refund deducts up to avail from the line's paid amount and returns what was
// deducted. The paid amount never drops below zero; residues within tolerance
// snap to exactly zero.
func (l *Line) refund(avail money.Money) money.Money {
	if !l.PaidAmount.IsPositive() || !avail.IsPositive() {
		return money.Zero(l.FinalPrice.Currency)
	}
	applied := money.Min(l.PaidAmount, avail)
	l.PaidAmount.Amount -= applied.Amount
	if l.PaidAmount.Amount <= PaidTolerance && l.PaidAmount.Amount < l.FinalPrice.Amount {
		l.PaidAmount.Amount = 0
	}
	l.refreshPaidFlag()
	return applied
}

func (l *Line) refreshPaidFlag() {
	l.IsPaid = l.PaidAmount.Amount >= l.FinalPrice.Amount-PaidTolerance
}

func ratePercent(c *CommissionTerms) float64 {
	if c == nil {
		return 0
	}
	return c.RatePercent
}
