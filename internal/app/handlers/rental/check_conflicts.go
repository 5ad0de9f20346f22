package rental

import (
	"context"
	"sort"

	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/queries"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
)

const checkConflictsKey = "rental.check_conflicts"

// CheckConflictsQuery is the advisory pre-check clients run before booking.
// The authoritative check re-runs inside the booking transaction.
type CheckConflictsQuery struct {
	StallIDs []string
	Dates    []string // yyyy-mm-dd
}

func (q CheckConflictsQuery) Key() string { return checkConflictsKey }

type StallConflicts struct {
	StallID string   `json:"stall_id"`
	Dates   []string `json:"dates"`
}

type CheckConflictsResult struct {
	Available bool             `json:"available"`
	Conflicts []StallConflicts `json:"conflicts,omitempty"`
}

type CheckConflictsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckConflictsHandler) Handle(ctx context.Context, q CheckConflictsQuery) (*CheckConflictsResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	dateKeys := make([]string, 0, len(q.Dates))
	for _, raw := range q.Dates {
		d, err := domainrental.ParseDateKey(raw)
		if err != nil {
			return nil, err
		}
		dateKeys = append(dateKeys, domainrental.DateKey(d))
	}

	result := &CheckConflictsResult{Available: true}
	for _, rawID := range q.StallIDs {
		taken, err := unit.Rentals().ExistingDates(ctx, domainmarket.StallID(rawID), dateKeys)
		if err != nil {
			return nil, err
		}
		if len(taken) == 0 {
			continue
		}
		sort.Strings(taken)
		result.Available = false
		result.Conflicts = append(result.Conflicts, StallConflicts{StallID: rawID, Dates: taken})
	}
	return result, nil
}

var _ queries.Handler[CheckConflictsQuery, *CheckConflictsResult] = (*CheckConflictsHandler)(nil)
