package rental

import (
	"context"
	"errors"
	"time"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/dto"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/middleware"
	"tahtam/internal/app/outbox"
	"tahtam/internal/app/uow"
	domainrental "tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/events"
	"tahtam/internal/domain/shared/money"
)

const applyPaymentKey = "rental.apply_payment"

var ErrTargetRequired = errors.New("rental: exactly one of line id or group id required")

// ApplyPaymentCommand runs the payment waterfall over one line or one group.
// Amount is signed minor units: positive collects, negative refunds.
type ApplyPaymentCommand struct {
	CommandID       string
	LineID          string
	GroupID         string
	Amount          int64
	Currency        string
	IdempotencyKeyV string
}

func (c ApplyPaymentCommand) Key() string { return applyPaymentKey }

func (c ApplyPaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ApplyPaymentCommand) ResultPrototype() any { return &ApplyPaymentResult{} }

type ApplyPaymentResult struct {
	TargetID    string               `json:"target_id"`
	Allocations []dto.AllocationView `json:"allocations"`
	PaidTotal   dto.MoneyDTO         `json:"paid_total"`
	IsPaid      bool                 `json:"is_paid"`
}

type ApplyPaymentHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *ApplyPaymentHandler) Handle(ctx context.Context, cmd ApplyPaymentCommand) (*ApplyPaymentResult, error) {
	if (cmd.LineID == "") == (cmd.GroupID == "") {
		return nil, ErrTargetRequired
	}

	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	target, err := resolveTarget(ctx, unit, cmd.LineID, cmd.GroupID)
	if err != nil {
		return nil, err
	}
	lines := target.TargetLines()

	amount, err := money.New(cmd.Amount, currencyOr(cmd.Currency, lines[0].FinalPrice.Currency))
	if err != nil {
		return nil, err
	}
	allocations, err := domainrental.ApplyPayment(lines, amount)
	if err != nil {
		return nil, err
	}

	if err := unit.Rentals().UpdatePayments(ctx, lines); err != nil {
		return nil, err
	}

	paidTotal := money.Zero(amount.Currency)
	allPaid := true
	for _, l := range lines {
		paidTotal.Amount += l.PaidAmount.Amount
		allPaid = allPaid && l.IsPaid
	}
	evt := domainrental.PaymentApplied{
		TargetID:  target.AggregateID(),
		Amount:    amount,
		LinesHit:  len(allocations),
		PaidTotal: paidTotal,
		At:        h.now(),
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{evt}); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}

	return &ApplyPaymentResult{
		TargetID:    target.AggregateID(),
		Allocations: dto.NewAllocationViews(allocations),
		PaidTotal:   dto.NewMoneyDTO(paidTotal),
		IsPaid:      allPaid,
	}, nil
}

func (h *ApplyPaymentHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *ApplyPaymentHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

func resolveTarget(ctx context.Context, unit uow.UnitOfWork, lineID, groupID string) (domainrental.Target, error) {
	if lineID != "" {
		line, err := unit.Rentals().ByID(ctx, domainrental.LineID(lineID))
		if err != nil {
			return nil, err
		}
		return domainrental.SingleTarget{Line: line}, nil
	}
	lines, err := unit.Rentals().ByGroup(ctx, domainrental.GroupID(groupID))
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domainrental.ErrGroupNotFound
	}
	group, err := domainrental.NewGroup(domainrental.GroupID(groupID), lines)
	if err != nil {
		return nil, err
	}
	return domainrental.GroupTarget{Group: group}, nil
}

func currencyOr(c, fallback string) string {
	if c != "" {
		return c
	}
	return fallback
}

var _ commands.Handler[ApplyPaymentCommand, *ApplyPaymentResult] = (*ApplyPaymentHandler)(nil)
var _ middleware.IdempotentCommand = ApplyPaymentCommand{}
