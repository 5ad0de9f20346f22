package outbox

import (
	"context"
	"encoding/json"
	"time"

	"tahtam/internal/domain/shared/events"
)

// EventRecord is a serialized domain event waiting to be published.
type EventRecord struct {
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
}

// Outbox buffers event records inside the current transaction boundary; Flush
// hands them to the delivery side once the transaction has committed.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

// EventEncoder turns a domain event into a payload.
type EventEncoder interface {
	Encode(evt events.DomainEvent) ([]byte, error)
}

// JSONEventEncoder encodes events as plain JSON.
type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(evt events.DomainEvent) ([]byte, error) {
	return json.Marshal(evt)
}

// RecordDomainEvents encodes and stores a batch of pending aggregate events.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, evts []events.DomainEvent) error {
	if box == nil || len(evts) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, evt := range evts {
		payload, err := encoder.Encode(evt)
		if err != nil {
			return err
		}
		record := EventRecord{
			Name:       evt.EventName(),
			Aggregate:  evt.AggregateID(),
			Payload:    payload,
			OccurredAt: evt.OccurredAt(),
		}
		if err := box.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
