package stall_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rentalapp "tahtam/internal/app/handlers/rental"
	stallapp "tahtam/internal/app/handlers/stall"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
	"tahtam/internal/infra/storage/memory"
)

func newFactory(t *testing.T) (memory.Factory, *memory.RentalRepository) {
	t.Helper()
	rentals := memory.NewRentalRepository()
	markets := memory.NewMarketplaceRepository()
	m, err := domainmarket.NewMarketplace("market-1", "Perşembe Pazarı", []domainmarket.Weekday{domainmarket.Thursday})
	require.NoError(t, err)
	require.NoError(t, markets.Save(context.Background(), m))
	return memory.Factory{
		RentalRepo:      rentals,
		StallRepo:       memory.NewStallRepository(),
		MarketplaceRepo: markets,
	}, rentals
}

func TestSaveStallHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns an id and stores the price table", func(t *testing.T) {
		factory, _ := newFactory(t)
		h := &stallapp.SaveStallHandler{UoWFactory: factory, NewID: func() string { return "s1" }}

		res, err := h.Handle(ctx, stallapp.SaveStallCommand{
			MarketplaceID: "market-1",
			OwnerID:       "owner-1",
			StallNumber:   "B7",
			Prices:        map[string]int64{"THURSDAY": 15000},
			DefaultPrice:  10000,
		})
		require.NoError(t, err)
		assert.Equal(t, "s1", res.StallID)

		unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		require.NoError(t, err)
		stored, err := unit.Stalls().ByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "B7", stored.StallNumber)
		thursday := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, int64(15000), stored.PriceFor(thursday).Amount)
		assert.Equal(t, int64(10000), stored.PriceFor(thursday.AddDate(0, 0, 1)).Amount, "other days fall back to the default")
	})

	t.Run("update keeps the original creation time", func(t *testing.T) {
		factory, _ := newFactory(t)
		created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		h := &stallapp.SaveStallHandler{
			UoWFactory: factory,
			NewID:      func() string { return "s1" },
			Clock:      func() time.Time { return created },
		}
		_, err := h.Handle(ctx, stallapp.SaveStallCommand{
			MarketplaceID: "market-1", OwnerID: "owner-1", StallNumber: "B7", DefaultPrice: 10000,
		})
		require.NoError(t, err)

		h.Clock = func() time.Time { return created.AddDate(0, 6, 0) }
		_, err = h.Handle(ctx, stallapp.SaveStallCommand{
			StallID: "s1", MarketplaceID: "market-1", OwnerID: "owner-1", StallNumber: "B8", DefaultPrice: 12000,
		})
		require.NoError(t, err)

		unit, err := factory.Begin(ctx, uow.TxOptions{})
		require.NoError(t, err)
		stored, err := unit.Stalls().ByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "B8", stored.StallNumber)
		assert.True(t, stored.CreatedAt.Equal(created))
	})

	t.Run("unknown weekday key rejected", func(t *testing.T) {
		factory, _ := newFactory(t)
		h := &stallapp.SaveStallHandler{UoWFactory: factory}
		_, err := h.Handle(ctx, stallapp.SaveStallCommand{
			MarketplaceID: "market-1", OwnerID: "owner-1", StallNumber: "B7",
			Prices: map[string]int64{"FUNDAY": 100},
		})
		assert.ErrorIs(t, err, domainmarket.ErrInvalidWeekday)
	})

	t.Run("unknown marketplace rejected", func(t *testing.T) {
		factory, _ := newFactory(t)
		h := &stallapp.SaveStallHandler{UoWFactory: factory}
		_, err := h.Handle(ctx, stallapp.SaveStallCommand{
			MarketplaceID: "nope", OwnerID: "owner-1", StallNumber: "B7",
		})
		assert.ErrorIs(t, err, domainmarket.ErrMarketplaceNotFound)
	})
}

func TestDeleteStallHandler(t *testing.T) {
	ctx := context.Background()
	factory, rentals := newFactory(t)

	save := &stallapp.SaveStallHandler{UoWFactory: factory, NewID: func() string { return "s1" }}
	_, err := save.Handle(ctx, stallapp.SaveStallCommand{
		MarketplaceID: "market-1", OwnerID: "owner-1", StallNumber: "B7", DefaultPrice: 10000,
	})
	require.NoError(t, err)

	book := &rentalapp.CreateBookingGroupHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}
	res, err := book.Handle(ctx, rentalapp.CreateBookingGroupCommand{
		MarketplaceID: "market-1",
		StallIDs:      []string{"s1"},
		Dates:         []string{"2024-03-07", "2024-03-14"},
		TenantID:      "tenant-1",
		TenantName:    "Ali",
	})
	require.NoError(t, err)
	require.Len(t, res.LineIDs, 2)

	h := &stallapp.DeleteStallHandler{UoWFactory: factory}
	delRes, err := h.Handle(ctx, stallapp.DeleteStallCommand{StallID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 2, delRes.RentalsDeleted)

	for _, id := range res.LineIDs {
		_, err := rentals.ByID(ctx, domainrental.LineID(id))
		assert.ErrorIs(t, err, domainrental.ErrLineNotFound, "stall lines are removed together with the stall")
	}

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	_, err = unit.Stalls().ByID(ctx, "s1")
	assert.ErrorIs(t, err, domainmarket.ErrStallNotFound)
}
