package events

import "time"

// DomainEvent is a fact recorded by an aggregate during a state change.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects pending events; embed it into aggregates.
type EventRecorder struct {
	pending []DomainEvent
}

// Record appends an event to the pending list.
func (r *EventRecorder) Record(evt DomainEvent) {
	r.pending = append(r.pending, evt)
}

// PendingEvents returns recorded events in order.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return r.pending
}

// ClearEvents drops recorded events, typically after they were handed to the outbox.
func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
