package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	rentalapp "tahtam/internal/app/handlers/rental"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
)

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var conflict *domainrental.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":        conflict.Error(),
			"stall_id":     conflict.StallID,
			"stall_number": conflict.StallNumber,
			"dates":        conflict.Dates,
		})
		return
	}
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	var invalidPrice *domainrental.InvalidPriceError
	var overpayment *domainrental.OverpaymentError
	var overrefund *domainrental.OverrefundError
	switch {
	case errors.Is(err, domainrental.ErrLineNotFound),
		errors.Is(err, domainrental.ErrGroupNotFound),
		errors.Is(err, domainmarket.ErrStallNotFound),
		errors.Is(err, domainmarket.ErrMarketplaceNotFound):
		return http.StatusNotFound
	case errors.As(err, &overpayment), errors.As(err, &overrefund):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalidPrice),
		errors.Is(err, domainrental.ErrZeroAmount),
		errors.Is(err, domainrental.ErrMarketClosed),
		errors.Is(err, domainrental.ErrInvalidDateKey),
		errors.Is(err, domainrental.ErrMixedCurrency),
		errors.Is(err, domainrental.ErrNoLines),
		errors.Is(err, domainrental.ErrNoDates),
		errors.Is(err, domainrental.ErrNoStalls),
		errors.Is(err, domainrental.ErrTenantRequired),
		errors.Is(err, domainrental.ErrWrongMarket),
		errors.Is(err, domainrental.ErrInvalidCommissionRate),
		errors.Is(err, domainmarket.ErrNoOpenDays),
		errors.Is(err, domainmarket.ErrNameRequired),
		errors.Is(err, domainmarket.ErrInvalidWeekday),
		errors.Is(err, domainmarket.ErrStallNumberMissing),
		errors.Is(err, domainmarket.ErrNegativePrice),
		errors.Is(err, rentalapp.ErrTargetRequired):
		return http.StatusBadRequest
	case errors.Is(err, domainrental.ErrUnknownRole):
		return http.StatusForbidden
	case errors.Is(err, domainrental.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
