package rental

import (
	"errors"
	"fmt"
	"strings"

	"tahtam/internal/domain/shared/money"
)

var (
	ErrLineNotFound   = errors.New("rental: booking line not found")
	ErrGroupNotFound  = errors.New("rental: booking group not found")
	ErrNoLines        = errors.New("rental: at least one booking line required")
	ErrZeroAmount     = errors.New("rental: payment amount must be non-zero")
	ErrMixedCurrency  = errors.New("rental: booking lines must share one currency")
	ErrMarketClosed   = errors.New("rental: marketplace is closed on the requested date")
	ErrUnknownRole    = errors.New("rental: unknown viewer role")
	ErrInvalidDateKey = errors.New("rental: date must be formatted as yyyy-mm-dd")

	// ErrUnavailable wraps transient store faults; callers may retry the whole
	// operation, the engine never retries on its own.
	ErrUnavailable = errors.New("rental: store temporarily unavailable")

	// ErrPartialState signals a partially committed multi-line write. With the
	// transactional unit of work this must never happen; treat as a fatal bug.
	ErrPartialState = errors.New("rental: partial state detected, invariant violated")
)

// ConflictError reports which dates of a requested booking are already taken.
type ConflictError struct {
	StallID     string
	StallNumber string
	Dates       []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("rental: stall %s already booked on %s", e.StallNumber, strings.Join(e.Dates, ", "))
}

// InvalidPriceError rejects non-positive negotiated totals and malformed prices.
type InvalidPriceError struct {
	Reason string
	Amount money.Money
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("rental: invalid price %s: %s", e.Amount, e.Reason)
}

// OverpaymentError rejects collections exceeding the outstanding debt.
type OverpaymentError struct {
	Outstanding money.Money
	Attempted   money.Money
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("rental: collection %s exceeds outstanding debt %s", e.Attempted, e.Outstanding)
}

// OverrefundError rejects corrections exceeding the paid-to-date amount.
type OverrefundError struct {
	Paid      money.Money
	Attempted money.Money
}

func (e *OverrefundError) Error() string {
	return fmt.Sprintf("rental: refund %s exceeds paid amount %s", e.Attempted.Neg(), e.Paid)
}
