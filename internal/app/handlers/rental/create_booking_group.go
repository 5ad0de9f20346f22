package rental

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/middleware"
	"tahtam/internal/app/outbox"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
)

const createBookingGroupKey = "rental.create_booking_group"

type CreateBookingGroupCommand struct {
	CommandID       string
	MarketplaceID   string
	StallIDs        []string
	Dates           []string // yyyy-mm-dd
	TenantID        string
	TenantName      string
	ManagerID       string
	CommissionRate  float64
	Managed         bool
	NegotiatedTotal *int64 // minor units, list-price sum when nil
	Currency        string
	IdempotencyKeyV string
}

func (c CreateBookingGroupCommand) Key() string { return createBookingGroupKey }

func (c CreateBookingGroupCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingGroupCommand) ResultPrototype() any { return &CreateBookingGroupResult{} }

type CreateBookingGroupResult struct {
	GroupID string   `json:"group_id,omitempty"`
	LineIDs []string `json:"line_ids"`
	Total   int64    `json:"total"`
	Summary string   `json:"summary"`
}

type CreateBookingGroupHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
	NewID      func() string
}

func (h *CreateBookingGroupHandler) Handle(ctx context.Context, cmd CreateBookingGroupCommand) (*CreateBookingGroupResult, error) {
	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	marketplace, err := unit.Marketplaces().ByID(ctx, domainmarket.MarketplaceID(cmd.MarketplaceID))
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(cmd.Dates))
	dateKeys := make([]string, 0, len(cmd.Dates))
	for _, raw := range cmd.Dates {
		d, err := domainrental.ParseDateKey(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
		dateKeys = append(dateKeys, domainrental.DateKey(d))
	}

	stalls := make([]*domainmarket.Stall, 0, len(cmd.StallIDs))
	for _, rawID := range cmd.StallIDs {
		stall, err := unit.Stalls().ByID(ctx, domainmarket.StallID(rawID))
		if err != nil {
			return nil, err
		}
		// Availability check runs in the same transaction as the insert so a
		// concurrent booking of the same stall/date cannot slip in between.
		taken, err := unit.Rentals().ExistingDates(ctx, stall.ID, dateKeys)
		if err != nil {
			return nil, err
		}
		if len(taken) > 0 {
			return nil, &domainrental.ConflictError{
				StallID:     string(stall.ID),
				StallNumber: stall.StallNumber,
				Dates:       taken,
			}
		}
		stalls = append(stalls, stall)
	}

	var commission *domainrental.CommissionTerms
	if cmd.Managed {
		commission = &domainrental.CommissionTerms{
			ManagerID:   cmd.ManagerID,
			RatePercent: cmd.CommissionRate,
		}
	}
	var negotiated *money.Money
	if cmd.NegotiatedTotal != nil {
		m, err := money.New(*cmd.NegotiatedTotal, h.currency(cmd.Currency))
		if err != nil {
			return nil, err
		}
		negotiated = &m
	}

	group, err := domainrental.AssembleBooking(domainrental.BookingRequest{
		Marketplace:     marketplace,
		Stalls:          stalls,
		Dates:           dates,
		TenantID:        cmd.TenantID,
		TenantName:      cmd.TenantName,
		Commission:      commission,
		NegotiatedTotal: negotiated,
		Now:             h.now(),
		NewID:           h.newID(),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Rentals().InsertAll(ctx, group.Lines); err != nil {
		return nil, err
	}

	evts := group.PendingEvents()
	group.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), evts); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}

	lineIDs := make([]string, 0, len(group.Lines))
	for _, l := range group.Lines {
		lineIDs = append(lineIDs, string(l.ID))
	}
	return &CreateBookingGroupResult{
		GroupID: string(group.ID),
		LineIDs: lineIDs,
		Total:   group.FinalPrice().Amount,
		Summary: group.Summary(),
	}, nil
}

func (h *CreateBookingGroupHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CreateBookingGroupHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

func (h *CreateBookingGroupHandler) newID() func() string {
	if h.NewID != nil {
		return h.NewID
	}
	return uuid.NewString
}

func (h *CreateBookingGroupHandler) currency(c string) string {
	if c != "" {
		return c
	}
	return money.DefaultCurrency
}

var _ commands.Handler[CreateBookingGroupCommand, *CreateBookingGroupResult] = (*CreateBookingGroupHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingGroupCommand{}
