package rental

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tahtam/internal/domain/shared/events"
	"tahtam/internal/domain/shared/money"
)

// Group is the derived aggregate over all lines created in one batch booking.
// It is never persisted on its own; every figure is recomputed from the lines.
type Group struct {
	ID    GroupID
	Lines []*Line
	events.EventRecorder
}

// NewGroup assembles a group from lines sharing the given id, preserving
// creation order.
func NewGroup(id GroupID, lines []*Line) (*Group, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	currency := lines[0].FinalPrice.Currency
	for _, l := range lines {
		if l.FinalPrice.Currency != currency {
			return nil, ErrMixedCurrency
		}
		if l.GroupID != id {
			return nil, fmt.Errorf("rental: line %s does not belong to group %s", l.ID, id)
		}
	}
	return &Group{ID: id, Lines: lines}, nil
}

// FinalPrice is the sum of line final prices.
func (g *Group) FinalPrice() money.Money {
	total := money.Zero(g.currency())
	for _, l := range g.Lines {
		total.Amount += l.FinalPrice.Amount
	}
	return total
}

// PaidAmount is the sum of line paid amounts.
func (g *Group) PaidAmount() money.Money {
	return sumPaid(g.Lines)
}

// Outstanding is the total unpaid remainder across the group.
func (g *Group) Outstanding() money.Money {
	return sumOutstanding(g.Lines)
}

// IsPaid is true only when every line is fully paid.
func (g *Group) IsPaid() bool {
	for _, l := range g.Lines {
		if !l.IsPaid {
			return false
		}
	}
	return true
}

// DateRange returns the first and last booked dates of the group.
func (g *Group) DateRange() (time.Time, time.Time) {
	first, last := g.Lines[0].Date, g.Lines[0].Date
	for _, l := range g.Lines[1:] {
		if l.Date.Before(first) {
			first = l.Date
		}
		if l.Date.After(last) {
			last = l.Date
		}
	}
	return first, last
}

// Summary renders a short human-readable description, e.g.
// "A1, A2 × 2024-03-04..2024-03-25 (8 days)".
func (g *Group) Summary() string {
	stalls := make([]string, 0, len(g.Lines))
	seen := make(map[string]bool)
	for _, l := range g.Lines {
		if !seen[l.StallNumber] {
			seen[l.StallNumber] = true
			stalls = append(stalls, l.StallNumber)
		}
	}
	sort.Strings(stalls)
	first, last := g.DateRange()
	return fmt.Sprintf("%s × %s..%s (%d days)", strings.Join(stalls, ", "), DateKey(first), DateKey(last), len(g.Lines))
}

func (g *Group) currency() string {
	return g.Lines[0].FinalPrice.Currency
}
