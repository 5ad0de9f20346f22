package rental

import "tahtam/internal/domain/shared/money"

// Role is the viewer role resolved by the (out of scope) auth layer.
type Role string

const (
	RoleTenant  Role = "TENANT"
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MARKET_MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleTenant, RoleOwner, RoleManager, RoleAdmin:
		return Role(raw), nil
	}
	return "", ErrUnknownRole
}

// Statement is what one viewer role should see as price and paid for a line
// or group. It is a pure read-time projection and is never persisted.
type Statement struct {
	Price  money.Money
	Paid   money.Money
	IsPaid bool
}

// ProjectLine derives the role-dependent view of one line. Tenants and admins
// see the raw figures. On managed lines the manager sees the commission as
// price with a paid figure tracking the same paid ratio as the underlying
// line; owners see their net revenue the same way. This mirrors the payment
// ratio rather than keeping an independent commission sub-ledger.
func ProjectLine(l *Line, role Role) (Statement, error) {
	switch role {
	case RoleTenant, RoleAdmin:
		return Statement{Price: l.FinalPrice, Paid: l.PaidAmount, IsPaid: l.IsPaid}, nil
	case RoleManager:
		return ratioStatement(l, l.CommissionAmount), nil
	case RoleOwner:
		return ratioStatement(l, l.OwnerRevenue), nil
	}
	return Statement{}, ErrUnknownRole
}

// ProjectTarget sums per-line statements over a single line or a group.
func ProjectTarget(t Target, role Role) (Statement, error) {
	lines := t.TargetLines()
	if len(lines) == 0 {
		return Statement{}, ErrNoLines
	}
	total := Statement{
		Price:  money.Zero(lines[0].FinalPrice.Currency),
		Paid:   money.Zero(lines[0].FinalPrice.Currency),
		IsPaid: true,
	}
	for _, l := range lines {
		st, err := ProjectLine(l, role)
		if err != nil {
			return Statement{}, err
		}
		total.Price.Amount += st.Price.Amount
		total.Paid.Amount += st.Paid.Amount
		total.IsPaid = total.IsPaid && st.IsPaid
	}
	return total, nil
}

func ratioStatement(l *Line, share money.Money) Statement {
	st := Statement{
		Price:  share,
		Paid:   money.Zero(share.Currency),
		IsPaid: l.IsPaid,
	}
	if l.FinalPrice.Amount > 0 {
		st.Paid.Amount = roundHalfUp(share.Amount*l.PaidAmount.Amount, l.FinalPrice.Amount)
	}
	return st
}
