package rental

import (
	"context"

	"tahtam/internal/app/dto"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/queries"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
)

const (
	listForViewerKey = "rental.list_for_viewer"
	listByDateKey    = "rental.list_by_date"
)

// ListForViewerQuery returns the rental feed for one user: admins see all
// lines, everyone else only the lines carrying their id for their role.
type ListForViewerQuery struct {
	UserID string
	Role   string
}

func (q ListForViewerQuery) Key() string { return listForViewerKey }

type ListForViewerHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListForViewerHandler) Handle(ctx context.Context, q ListForViewerQuery) (*dto.RentalLineCollection, error) {
	role, err := domainrental.ParseRole(q.Role)
	if err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	lines, err := unit.Rentals().ListForViewer(ctx, q.UserID, role)
	if err != nil {
		return nil, err
	}
	collection, err := dto.NewRentalLineCollection(lines, role)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// ListByDateQuery returns all lines of one marketplace on one day, rendered
// through the viewer's role.
type ListByDateQuery struct {
	MarketplaceID string
	Date          string // yyyy-mm-dd
	Role          string
}

func (q ListByDateQuery) Key() string { return listByDateKey }

type ListByDateHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListByDateHandler) Handle(ctx context.Context, q ListByDateQuery) (*dto.RentalLineCollection, error) {
	role, err := domainrental.ParseRole(q.Role)
	if err != nil {
		return nil, err
	}
	day, err := domainrental.ParseDateKey(q.Date)
	if err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	lines, err := unit.Rentals().ListByMarketAndDate(ctx, domainmarket.MarketplaceID(q.MarketplaceID), domainrental.DateKey(day))
	if err != nil {
		return nil, err
	}
	collection, err := dto.NewRentalLineCollection(lines, role)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

var _ queries.Handler[ListForViewerQuery, *dto.RentalLineCollection] = (*ListForViewerHandler)(nil)
var _ queries.Handler[ListByDateQuery, *dto.RentalLineCollection] = (*ListByDateHandler)(nil)
