package rental

import (
	"context"
	"time"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/middleware"
	"tahtam/internal/app/outbox"
	"tahtam/internal/app/uow"
	domainrental "tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/events"
)

const (
	deleteLineKey  = "rental.delete_line"
	deleteGroupKey = "rental.delete_group"
)

type DeleteLineCommand struct {
	CommandID       string
	LineID          string
	IdempotencyKeyV string
}

func (c DeleteLineCommand) Key() string { return deleteLineKey }

func (c DeleteLineCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c DeleteLineCommand) ResultPrototype() any { return &DeleteLineResult{} }

type DeleteLineResult struct {
	LineID string `json:"line_id"`
}

type DeleteLineHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *DeleteLineHandler) Handle(ctx context.Context, cmd DeleteLineCommand) (*DeleteLineResult, error) {
	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	line, err := unit.Rentals().ByID(ctx, domainrental.LineID(cmd.LineID))
	if err != nil {
		return nil, err
	}
	if err := unit.Rentals().Delete(ctx, line.ID); err != nil {
		return nil, err
	}

	evt := domainrental.LineDeleted{LineID: line.ID, StallID: string(line.StallID), At: h.now()}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{evt}); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &DeleteLineResult{LineID: string(line.ID)}, nil
}

func (h *DeleteLineHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *DeleteLineHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

type DeleteGroupCommand struct {
	CommandID       string
	GroupID         string
	IdempotencyKeyV string
}

func (c DeleteGroupCommand) Key() string { return deleteGroupKey }

func (c DeleteGroupCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c DeleteGroupCommand) ResultPrototype() any { return &DeleteGroupResult{} }

type DeleteGroupResult struct {
	GroupID string `json:"group_id"`
	Deleted int    `json:"deleted"`
}

type DeleteGroupHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

// Handle removes every line of the group in one transaction; a group never
// survives partially deleted.
func (h *DeleteGroupHandler) Handle(ctx context.Context, cmd DeleteGroupCommand) (*DeleteGroupResult, error) {
	unit, ctx, commit, cleanup, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	deleted, err := unit.Rentals().DeleteByGroup(ctx, domainrental.GroupID(cmd.GroupID))
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, domainrental.ErrGroupNotFound
	}

	evt := domainrental.GroupDeleted{GroupID: domainrental.GroupID(cmd.GroupID), Lines: deleted, At: h.now()}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{evt}); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &DeleteGroupResult{GroupID: cmd.GroupID, Deleted: deleted}, nil
}

func (h *DeleteGroupHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *DeleteGroupHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

var _ commands.Handler[DeleteLineCommand, *DeleteLineResult] = (*DeleteLineHandler)(nil)
var _ commands.Handler[DeleteGroupCommand, *DeleteGroupResult] = (*DeleteGroupHandler)(nil)
var _ middleware.IdempotentCommand = DeleteLineCommand{}
var _ middleware.IdempotentCommand = DeleteGroupCommand{}
