package rental

import "tahtam/internal/domain/shared/money"

// Allocation records how much of a payment landed on one line.
type Allocation struct {
	LineID    LineID
	Applied   money.Money
	PaidAfter money.Money
	IsPaid    bool
}

// ApplyPayment distributes a signed amount over lines in their fixed creation
// order, the waterfall. Positive amounts fill outstanding debt line by line;
// negative amounts (corrections) drain paid amounts in the same order.
//
// The whole operation validates before mutating: a collection larger than the
// total outstanding debt or a refund larger than the total paid-to-date is
// rejected and no line changes. Callers must run this inside one store
// transaction together with the write-back.
func ApplyPayment(lines []*Line, signed money.Money) ([]Allocation, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	currency := lines[0].FinalPrice.Currency
	for _, l := range lines {
		if l.FinalPrice.Currency != currency {
			return nil, ErrMixedCurrency
		}
	}
	if signed.Currency != currency {
		return nil, ErrMixedCurrency
	}
	if signed.IsZero() {
		return nil, ErrZeroAmount
	}

	if signed.IsPositive() {
		outstanding := sumOutstanding(lines)
		if outstanding.Less(signed) {
			return nil, &OverpaymentError{Outstanding: outstanding, Attempted: signed}
		}
		return collect(lines, signed), nil
	}

	paid := sumPaid(lines)
	refundable := signed.Neg()
	if paid.Less(refundable) {
		return nil, &OverrefundError{Paid: paid, Attempted: signed}
	}
	return refund(lines, refundable), nil
}

func collect(lines []*Line, amount money.Money) []Allocation {
	left := amount
	allocations := make([]Allocation, 0, len(lines))
	for _, l := range lines {
		if !left.IsPositive() {
			break
		}
		applied := l.collect(left)
		if applied.IsZero() {
			continue
		}
		left.Amount -= applied.Amount
		allocations = append(allocations, Allocation{
			LineID:    l.ID,
			Applied:   applied,
			PaidAfter: l.PaidAmount,
			IsPaid:    l.IsPaid,
		})
	}
	return allocations
}

func refund(lines []*Line, amount money.Money) []Allocation {
	left := amount
	allocations := make([]Allocation, 0, len(lines))
	for _, l := range lines {
		if !left.IsPositive() {
			break
		}
		applied := l.refund(left)
		if applied.IsZero() {
			continue
		}
		left.Amount -= applied.Amount
		allocations = append(allocations, Allocation{
			LineID:    l.ID,
			Applied:   applied.Neg(),
			PaidAfter: l.PaidAmount,
			IsPaid:    l.IsPaid,
		})
	}
	return allocations
}

func sumOutstanding(lines []*Line) money.Money {
	total := money.Zero(lines[0].FinalPrice.Currency)
	for _, l := range lines {
		total.Amount += l.Outstanding().Amount
	}
	return total
}

func sumPaid(lines []*Line) money.Money {
	total := money.Zero(lines[0].FinalPrice.Currency)
	for _, l := range lines {
		total.Amount += l.PaidAmount.Amount
	}
	return total
}
