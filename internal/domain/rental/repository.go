package rental

import (
	"context"
	"time"

	"tahtam/internal/domain/market"
)

// Repository is the persistence port for booking lines. Implementations are
// expected to honor creation order wherever lines of one group are returned,
// since the payment waterfall depends on it.
type Repository interface {
	ByID(ctx context.Context, id LineID) (*Line, error)
	ByGroup(ctx context.Context, id GroupID) ([]*Line, error)

	// ExistingDates returns the subset of the given yyyy-mm-dd keys for which
	// a line already exists on the stall.
	ExistingDates(ctx context.Context, stallID market.StallID, dateKeys []string) ([]string, error)

	// InsertAll persists a batch of new lines as one logical write.
	InsertAll(ctx context.Context, lines []*Line) error

	// UpdatePayments writes back paid amounts and paid flags after a waterfall run.
	UpdatePayments(ctx context.Context, lines []*Line) error

	Delete(ctx context.Context, id LineID) error
	DeleteByGroup(ctx context.Context, id GroupID) (int, error)
	DeleteByStall(ctx context.Context, stallID market.StallID) (int, error)

	// ListForViewer returns the rental feed for a user: admins see everything,
	// owners/managers/tenants only the lines carrying their id. Newest first.
	ListForViewer(ctx context.Context, userID string, role Role) ([]*Line, error)

	// ListByMarketAndDate returns the lines of one marketplace on one day.
	ListByMarketAndDate(ctx context.Context, marketID market.MarketplaceID, dateKey string) ([]*Line, error)

	// ListForViewerSince narrows the viewer feed to lines dated on or after
	// the given day; used by dashboard aggregation.
	ListForViewerSince(ctx context.Context, userID string, role Role, since time.Time) ([]*Line, error)
}
