package rental

import (
	"context"

	"tahtam/internal/app/dto"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/queries"
	"tahtam/internal/app/uow"
	domainrental "tahtam/internal/domain/rental"
)

const statementKey = "rental.statement"

// StatementQuery projects the settlement view of one line or one group for a
// viewer role. Exactly one of LineID and GroupID must be set.
type StatementQuery struct {
	LineID  string
	GroupID string
	Role    string
}

func (q StatementQuery) Key() string { return statementKey }

type StatementResult struct {
	TargetID  string            `json:"target_id"`
	Role      string            `json:"role"`
	Statement dto.StatementView `json:"statement"`
}

type StatementHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *StatementHandler) Handle(ctx context.Context, q StatementQuery) (*StatementResult, error) {
	if (q.LineID == "") == (q.GroupID == "") {
		return nil, ErrTargetRequired
	}
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

	target, err := resolveTarget(ctx, unit, q.LineID, q.GroupID)
	if err != nil {
		return nil, err
	}
	st, err := domainrental.ProjectTarget(target, role)
	if err != nil {
		return nil, err
	}
	return &StatementResult{
		TargetID:  target.AggregateID(),
		Role:      string(role),
		Statement: dto.NewStatementView(st),
	}, nil
}

var _ queries.Handler[StatementQuery, *StatementResult] = (*StatementHandler)(nil)
