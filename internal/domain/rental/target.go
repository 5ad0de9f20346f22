package rental

// Target is the payment and projection subject: either a single line or a
// whole booking group. The sealed sum type replaces ad hoc "is this a group"
// flags so the waterfall and the settlement view handle both shapes the
// same way.
type Target interface {
	TargetLines() []*Line
	AggregateID() string
	isTarget()
}

// SingleTarget wraps a non-grouped booking line.
type SingleTarget struct {
	Line *Line
}

func (t SingleTarget) TargetLines() []*Line { return []*Line{t.Line} }
func (t SingleTarget) AggregateID() string  { return string(t.Line.ID) }
func (t SingleTarget) isTarget()            {}

// GroupTarget wraps a booking group.
type GroupTarget struct {
	Group *Group
}

func (t GroupTarget) TargetLines() []*Line { return t.Group.Lines }
func (t GroupTarget) AggregateID() string  { return string(t.Group.ID) }
func (t GroupTarget) isTarget()            {}
