package rental_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rentalapp "tahtam/internal/app/handlers/rental"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
	"tahtam/internal/infra/storage/memory"
)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type fixture struct {
	factory memory.Factory
	rentals *memory.RentalRepository
	outbox  *memory.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rentals := memory.NewRentalRepository()
	stalls := memory.NewStallRepository()
	markets := memory.NewMarketplaceRepository()

	ctx := context.Background()
	m, err := domainmarket.NewMarketplace("market-1", "Salı Pazarı", []domainmarket.Weekday{domainmarket.Monday, domainmarket.Tuesday})
	require.NoError(t, err)
	require.NoError(t, markets.Save(ctx, m))

	for i, price := range []int64{10000, 20000} {
		s, err := domainmarket.NewStall(
			domainmarket.StallID(fmt.Sprintf("s%d", i+1)),
			"market-1", "owner-1", fmt.Sprintf("A%d", i+1),
			nil, money.Kurus(price), time.Now(),
		)
		require.NoError(t, err)
		require.NoError(t, stalls.Save(ctx, s))
	}

	return &fixture{
		factory: memory.Factory{RentalRepo: rentals, StallRepo: stalls, MarketplaceRepo: markets},
		rentals: rentals,
		outbox:  memory.NewOutbox(),
	}
}

func (f *fixture) createHandler() *rentalapp.CreateBookingGroupHandler {
	return &rentalapp.CreateBookingGroupHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		NewID:      sequentialIDs("id"),
	}
}

func (f *fixture) book(t *testing.T, cmd rentalapp.CreateBookingGroupCommand) *rentalapp.CreateBookingGroupResult {
	t.Helper()
	res, err := f.createHandler().Handle(context.Background(), cmd)
	require.NoError(t, err)
	return res
}

func bookingCmd() rentalapp.CreateBookingGroupCommand {
	return rentalapp.CreateBookingGroupCommand{
		CommandID:     "cmd-1",
		MarketplaceID: "market-1",
		StallIDs:      []string{"s1", "s2"},
		Dates:         []string{"2024-03-04", "2024-03-05"},
		TenantID:      "tenant-1",
		TenantName:    "Ali",
	}
}

func TestCreateBookingGroupHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("persists lines and records the event", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, bookingCmd())

		require.NotEmpty(t, res.GroupID)
		require.Len(t, res.LineIDs, 4)
		assert.Equal(t, int64(60000), res.Total)

		stored, err := f.rentals.ByGroup(ctx, domainrental.GroupID(res.GroupID))
		require.NoError(t, err)
		require.Len(t, stored, 4)
		for i, l := range stored {
			assert.Equal(t, res.LineIDs[i], string(l.ID), "stored order matches creation order")
			assert.False(t, l.IsPaid)
		}

		pending := f.outbox.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, "rental.group_created", pending[0].Name)
		assert.Equal(t, res.GroupID, pending[0].Aggregate)
	})

	t.Run("negotiated total lowers the booked total", func(t *testing.T) {
		f := newFixture(t)
		cmd := bookingCmd()
		negotiated := int64(45000)
		cmd.NegotiatedTotal = &negotiated
		res := f.book(t, cmd)
		assert.Equal(t, negotiated, res.Total)
	})

	t.Run("conflicting dates abort the whole booking", func(t *testing.T) {
		f := newFixture(t)
		first := bookingCmd()
		first.StallIDs = []string{"s1"}
		first.Dates = []string{"2024-03-04"}
		f.book(t, first)
		f.outbox.Flush(ctx)

		var conflict *domainrental.ConflictError
		_, err := f.createHandler().Handle(ctx, bookingCmd())
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "s1", conflict.StallID)
		assert.Equal(t, []string{"2024-03-04"}, conflict.Dates)

		taken, err := f.rentals.ExistingDates(ctx, "s2", []string{"2024-03-04", "2024-03-05"})
		require.NoError(t, err)
		assert.Empty(t, taken, "no line of the rejected booking is persisted")
		assert.Empty(t, f.outbox.Pending())
	})

	t.Run("unknown marketplace", func(t *testing.T) {
		f := newFixture(t)
		cmd := bookingCmd()
		cmd.MarketplaceID = "nope"
		_, err := f.createHandler().Handle(ctx, cmd)
		assert.ErrorIs(t, err, domainmarket.ErrMarketplaceNotFound)
	})

	t.Run("closed weekday", func(t *testing.T) {
		f := newFixture(t)
		cmd := bookingCmd()
		cmd.Dates = []string{"2024-03-06"} // Wednesday
		_, err := f.createHandler().Handle(ctx, cmd)
		assert.ErrorIs(t, err, domainrental.ErrMarketClosed)
	})
}

func TestApplyPaymentHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("collection persists the waterfall result", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, bookingCmd()) // 4 lines: 10000, 10000, 20000, 20000

		h := &rentalapp.ApplyPaymentHandler{UoWFactory: f.factory, Outbox: f.outbox}
		payRes, err := h.Handle(ctx, rentalapp.ApplyPaymentCommand{GroupID: res.GroupID, Amount: 25000})
		require.NoError(t, err)

		assert.Equal(t, int64(25000), payRes.PaidTotal.Amount)
		assert.False(t, payRes.IsPaid)
		require.Len(t, payRes.Allocations, 3)

		stored, err := f.rentals.ByGroup(ctx, domainrental.GroupID(res.GroupID))
		require.NoError(t, err)
		assert.Equal(t, int64(10000), stored[0].PaidAmount.Amount)
		assert.Equal(t, int64(10000), stored[1].PaidAmount.Amount)
		assert.Equal(t, int64(5000), stored[2].PaidAmount.Amount)
		assert.Equal(t, int64(0), stored[3].PaidAmount.Amount)
		assert.True(t, stored[0].IsPaid)
		assert.False(t, stored[2].IsPaid)
	})

	t.Run("overpayment leaves the store untouched", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, bookingCmd())

		h := &rentalapp.ApplyPaymentHandler{UoWFactory: f.factory, Outbox: f.outbox}
		var overErr *domainrental.OverpaymentError
		_, err := h.Handle(ctx, rentalapp.ApplyPaymentCommand{GroupID: res.GroupID, Amount: 60001})
		require.ErrorAs(t, err, &overErr)

		stored, err := f.rentals.ByGroup(ctx, domainrental.GroupID(res.GroupID))
		require.NoError(t, err)
		for _, l := range stored {
			assert.Zero(t, l.PaidAmount.Amount)
		}
	})

	t.Run("single line target", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, bookingCmd())

		h := &rentalapp.ApplyPaymentHandler{UoWFactory: f.factory, Outbox: f.outbox}
		payRes, err := h.Handle(ctx, rentalapp.ApplyPaymentCommand{LineID: res.LineIDs[0], Amount: 10000})
		require.NoError(t, err)
		assert.True(t, payRes.IsPaid)
		assert.Equal(t, res.LineIDs[0], payRes.TargetID)
	})

	t.Run("requires exactly one target", func(t *testing.T) {
		f := newFixture(t)
		h := &rentalapp.ApplyPaymentHandler{UoWFactory: f.factory, Outbox: f.outbox}
		_, err := h.Handle(ctx, rentalapp.ApplyPaymentCommand{Amount: 100})
		assert.ErrorIs(t, err, rentalapp.ErrTargetRequired)
		_, err = h.Handle(ctx, rentalapp.ApplyPaymentCommand{LineID: "a", GroupID: "b", Amount: 100})
		assert.ErrorIs(t, err, rentalapp.ErrTargetRequired)
	})
}

func TestDeleteHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("delete line", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, bookingCmd())

		h := &rentalapp.DeleteLineHandler{UoWFactory: f.factory, Outbox: f.outbox}
		_, err := h.Handle(ctx, rentalapp.DeleteLineCommand{LineID: res.LineIDs[0]})
		require.NoError(t, err)

		_, err = f.rentals.ByID(ctx, domainrental.LineID(res.LineIDs[0]))
		assert.ErrorIs(t, err, domainrental.ErrLineNotFound)
	})

	t.Run("delete group removes every line", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, bookingCmd())

		h := &rentalapp.DeleteGroupHandler{UoWFactory: f.factory, Outbox: f.outbox}
		delRes, err := h.Handle(ctx, rentalapp.DeleteGroupCommand{GroupID: res.GroupID})
		require.NoError(t, err)
		assert.Equal(t, 4, delRes.Deleted)

		for _, id := range res.LineIDs {
			_, err := f.rentals.ByID(ctx, domainrental.LineID(id))
			assert.ErrorIs(t, err, domainrental.ErrLineNotFound)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		f := newFixture(t)
		h := &rentalapp.DeleteGroupHandler{UoWFactory: f.factory, Outbox: f.outbox}
		_, err := h.Handle(ctx, rentalapp.DeleteGroupCommand{GroupID: "ghost"})
		assert.ErrorIs(t, err, domainrental.ErrGroupNotFound)
	})
}

func TestCheckConflictsHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := bookingCmd()
	first.StallIDs = []string{"s1"}
	first.Dates = []string{"2024-03-04"}
	f.book(t, first)

	h := &rentalapp.CheckConflictsHandler{UoWFactory: f.factory}

	res, err := h.Handle(ctx, rentalapp.CheckConflictsQuery{
		StallIDs: []string{"s1", "s2"},
		Dates:    []string{"2024-03-04", "2024-03-05"},
	})
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "s1", res.Conflicts[0].StallID)
	assert.Equal(t, []string{"2024-03-04"}, res.Conflicts[0].Dates)

	res, err = h.Handle(ctx, rentalapp.CheckConflictsQuery{StallIDs: []string{"s2"}, Dates: []string{"2024-03-04"}})
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Empty(t, res.Conflicts)
}

func TestStatementHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cmd := bookingCmd()
	cmd.Managed = true
	cmd.ManagerID = "manager-1"
	cmd.CommissionRate = 10
	res := f.book(t, cmd) // total 600.00, commission 60.00

	pay := &rentalapp.ApplyPaymentHandler{UoWFactory: f.factory, Outbox: f.outbox}
	_, err := pay.Handle(ctx, rentalapp.ApplyPaymentCommand{GroupID: res.GroupID, Amount: 30000})
	require.NoError(t, err)

	h := &rentalapp.StatementHandler{UoWFactory: f.factory}

	t.Run("manager sees commission at the paid ratio", func(t *testing.T) {
		st, err := h.Handle(ctx, rentalapp.StatementQuery{GroupID: res.GroupID, Role: "MARKET_MANAGER"})
		require.NoError(t, err)
		assert.Equal(t, int64(6000), st.Statement.Price.Amount)
		assert.Equal(t, int64(3000), st.Statement.Paid.Amount, "half paid, half the commission")
	})

	t.Run("tenant sees raw figures", func(t *testing.T) {
		st, err := h.Handle(ctx, rentalapp.StatementQuery{GroupID: res.GroupID, Role: "TENANT"})
		require.NoError(t, err)
		assert.Equal(t, int64(60000), st.Statement.Price.Amount)
		assert.Equal(t, int64(30000), st.Statement.Paid.Amount)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := h.Handle(ctx, rentalapp.StatementQuery{GroupID: res.GroupID, Role: "GUEST"})
		assert.ErrorIs(t, err, domainrental.ErrUnknownRole)
	})

	t.Run("requires exactly one target", func(t *testing.T) {
		_, err := h.Handle(ctx, rentalapp.StatementQuery{Role: "TENANT"})
		assert.ErrorIs(t, err, rentalapp.ErrTargetRequired)
	})
}
