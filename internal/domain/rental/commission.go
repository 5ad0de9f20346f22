package rental

import (
	"errors"
	"math"

	"tahtam/internal/domain/shared/money"
)

var ErrInvalidCommissionRate = errors.New("rental: commission rate must be between 0 and 100 percent")

// CommissionTerms captures the manager context of a managed booking. The rate
// is frozen onto each line at creation; later changes to a manager's
// configured rate never reprice historical bookings.
type CommissionTerms struct {
	ManagerID   string
	RatePercent float64
}

// Split is the division of a final price between manager and owner.
type Split struct {
	Commission   money.Money
	OwnerRevenue money.Money
}

// SplitCommission computes the manager's commission and the owner's net
// revenue. The owner side is derived by subtraction rather than rounded
// independently, so Commission + OwnerRevenue always equals the final price.
func SplitCommission(finalPrice money.Money, managed bool, ratePercent float64) (Split, error) {
	if !managed {
		return Split{
			Commission:   money.Zero(finalPrice.Currency),
			OwnerRevenue: finalPrice,
		}, nil
	}
	if ratePercent < 0 || ratePercent > 100 || math.IsNaN(ratePercent) {
		return Split{}, ErrInvalidCommissionRate
	}
	basisPoints := int64(math.Round(ratePercent * 100))
	commission := money.Money{
		Amount:   roundHalfUp(finalPrice.Amount*basisPoints, 10_000),
		Currency: finalPrice.Currency,
	}
	revenue, err := finalPrice.Sub(commission)
	if err != nil {
		return Split{}, err
	}
	return Split{Commission: commission, OwnerRevenue: revenue}, nil
}

// roundHalfUp divides num by den rounding halves away from zero.
// Only called with den > 0 and num >= 0.
func roundHalfUp(num, den int64) int64 {
	q := num / den
	r := num % den
	if 2*r >= den {
		q++
	}
	return q
}
