package rental

import "tahtam/internal/domain/shared/money"

// Prorate distributes a negotiated batch total across lines in proportion to
// their list prices. Every line except the last is rounded to the minor unit;
// the last line takes the exact remainder so the batch total reconciles to
// the kuruş no matter how the other shares rounded.
//
// Without a negotiated total each line keeps its list price. A batch whose
// list prices sum to zero stays free regardless of the negotiated total.
func Prorate(listPrices []money.Money, negotiated *money.Money) ([]money.Money, error) {
	if len(listPrices) == 0 {
		return nil, ErrNoLines
	}
	currency := listPrices[0].Currency
	var sum int64
	for _, p := range listPrices {
		if p.Currency != currency {
			return nil, ErrMixedCurrency
		}
		if p.IsNegative() {
			return nil, &InvalidPriceError{Reason: "list price cannot be negative", Amount: p}
		}
		sum += p.Amount
	}

	finals := make([]money.Money, len(listPrices))
	if negotiated == nil {
		copy(finals, listPrices)
		return finals, nil
	}
	if negotiated.Currency != currency {
		return nil, ErrMixedCurrency
	}
	if !negotiated.IsPositive() {
		return nil, &InvalidPriceError{Reason: "negotiated total must be positive", Amount: *negotiated}
	}
	if sum == 0 {
		for i := range finals {
			finals[i] = money.Zero(currency)
		}
		return finals, nil
	}

	remaining := negotiated.Amount
	for i, p := range listPrices {
		if i == len(listPrices)-1 {
			finals[i] = money.Money{Amount: remaining, Currency: currency}
			break
		}
		share := roundHalfUp(negotiated.Amount*p.Amount, sum)
		finals[i] = money.Money{Amount: share, Currency: currency}
		remaining -= share
	}
	return finals, nil
}
