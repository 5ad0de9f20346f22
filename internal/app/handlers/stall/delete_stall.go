package stall

import (
	"context"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/middleware"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
)

const deleteStallKey = "stall.delete"

type DeleteStallCommand struct {
	CommandID       string
	StallID         string
	IdempotencyKeyV string
}

func (c DeleteStallCommand) Key() string { return deleteStallKey }

func (c DeleteStallCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c DeleteStallCommand) ResultPrototype() any { return &DeleteStallResult{} }

type DeleteStallResult struct {
	StallID        string `json:"stall_id"`
	RentalsDeleted int    `json:"rentals_deleted"`
}

type DeleteStallHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle removes the stall together with all its booking lines in one
// transaction. Orphaned lines pointing at a deleted stall would poison the
// availability index, so the two deletes never commit separately.
func (h *DeleteStallHandler) Handle(ctx context.Context, cmd DeleteStallCommand) (*DeleteStallResult, error) {
	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	stall, err := unit.Stalls().ByID(ctx, domainmarket.StallID(cmd.StallID))
	if err != nil {
		return nil, err
	}
	deleted, err := unit.Rentals().DeleteByStall(ctx, stall.ID)
	if err != nil {
		return nil, err
	}
	if err := unit.Stalls().Delete(ctx, stall.ID); err != nil {
		return nil, err
	}
	if err := commit(); err != nil {
		return nil, err
	}
	return &DeleteStallResult{StallID: string(stall.ID), RentalsDeleted: deleted}, nil
}

var _ commands.Handler[DeleteStallCommand, *DeleteStallResult] = (*DeleteStallHandler)(nil)
var _ middleware.IdempotentCommand = DeleteStallCommand{}
