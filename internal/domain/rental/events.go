package rental

import (
	"time"

	"tahtam/internal/domain/shared/money"
)

type BookingGroupCreated struct {
	GroupID    GroupID
	TenantID   string
	TenantName string
	LineCount  int
	Total      money.Money
	Managed    bool
	At         time.Time
}

func (e BookingGroupCreated) EventName() string     { return "rental.group_created" }
func (e BookingGroupCreated) AggregateID() string   { return string(e.GroupID) }
func (e BookingGroupCreated) OccurredAt() time.Time { return e.At }

type PaymentApplied struct {
	TargetID  string
	Amount    money.Money
	LinesHit  int
	PaidTotal money.Money
	At        time.Time
}

func (e PaymentApplied) EventName() string     { return "rental.payment_applied" }
func (e PaymentApplied) AggregateID() string   { return e.TargetID }
func (e PaymentApplied) OccurredAt() time.Time { return e.At }

type LineDeleted struct {
	LineID  LineID
	StallID string
	At      time.Time
}

func (e LineDeleted) EventName() string     { return "rental.line_deleted" }
func (e LineDeleted) AggregateID() string   { return string(e.LineID) }
func (e LineDeleted) OccurredAt() time.Time { return e.At }

type GroupDeleted struct {
	GroupID GroupID
	Lines   int
	At      time.Time
}

func (e GroupDeleted) EventName() string     { return "rental.group_deleted" }
func (e GroupDeleted) AggregateID() string   { return string(e.GroupID) }
func (e GroupDeleted) OccurredAt() time.Time { return e.At }
