package mongo

import (
	"context"

	appoutbox "tahtam/internal/app/outbox"
	infraoutbox "tahtam/internal/infra/outbox"
)

// TransactionalOutbox writes event records straight into the outbox
// collection. The session carried by ctx makes the insert part of the
// command's transaction; delivery is the worker's job, so Flush is a no-op.
type TransactionalOutbox struct {
	store *infraoutbox.Store
}

func NewTransactionalOutbox(store *infraoutbox.Store) *TransactionalOutbox {
	return &TransactionalOutbox{store: store}
}

func (o *TransactionalOutbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	return o.store.Add(ctx, record)
}

func (o *TransactionalOutbox) Flush(ctx context.Context) error {
	return nil
}

var _ appoutbox.Outbox = (*TransactionalOutbox)(nil)
