package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboardapp "tahtam/internal/app/handlers/dashboard"
	rentalapp "tahtam/internal/app/handlers/rental"
	domainmarket "tahtam/internal/domain/market"
	"tahtam/internal/domain/shared/money"
	"tahtam/internal/infra/storage/memory"
)

func TestStatsHandler(t *testing.T) {
	ctx := context.Background()
	factory := memory.Factory{
		RentalRepo:      memory.NewRentalRepository(),
		StallRepo:       memory.NewStallRepository(),
		MarketplaceRepo: memory.NewMarketplaceRepository(),
	}

	m, err := domainmarket.NewMarketplace("market-1", "Pazartesi Pazarı", []domainmarket.Weekday{domainmarket.Monday})
	require.NoError(t, err)
	require.NoError(t, factory.MarketplaceRepo.Save(ctx, m))
	s, err := domainmarket.NewStall("s1", "market-1", "owner-1", "A1", nil, money.Kurus(10000), time.Now())
	require.NoError(t, err)
	require.NoError(t, factory.StallRepo.Save(ctx, s))

	book := &rentalapp.CreateBookingGroupHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}
	pay := &rentalapp.ApplyPaymentHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}

	// Two March Mondays, fully paid.
	march, err := book.Handle(ctx, rentalapp.CreateBookingGroupCommand{
		MarketplaceID: "market-1", StallIDs: []string{"s1"},
		Dates:    []string{"2024-03-04", "2024-03-11"},
		TenantID: "tenant-1", TenantName: "Ali",
	})
	require.NoError(t, err)
	_, err = pay.Handle(ctx, rentalapp.ApplyPaymentCommand{GroupID: march.GroupID, Amount: 20000})
	require.NoError(t, err)

	// One February Monday, half paid.
	feb, err := book.Handle(ctx, rentalapp.CreateBookingGroupCommand{
		MarketplaceID: "market-1", StallIDs: []string{"s1"},
		Dates:    []string{"2024-02-05"},
		TenantID: "tenant-1", TenantName: "Ali",
	})
	require.NoError(t, err)
	_, err = pay.Handle(ctx, rentalapp.ApplyPaymentCommand{LineID: feb.LineIDs[0], Amount: 5000})
	require.NoError(t, err)

	h := &dashboardapp.StatsHandler{
		UoWFactory: factory,
		Clock:      func() time.Time { return time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) },
	}

	t.Run("owner buckets collected revenue by month", func(t *testing.T) {
		stats, err := h.Handle(ctx, dashboardapp.StatsQuery{UserID: "owner-1", Role: "OWNER"})
		require.NoError(t, err)

		assert.Equal(t, 2, stats.ThisMonthCount)
		assert.Equal(t, 1, stats.LastMonthCount)
		assert.Equal(t, int64(25000), stats.TotalRevenue.Amount)

		require.Len(t, stats.Monthly, 2)
		assert.Equal(t, "2024-02", stats.Monthly[0].Month)
		assert.Equal(t, int64(5000), stats.Monthly[0].Revenue.Amount)
		assert.Equal(t, "2024-03", stats.Monthly[1].Month)
		assert.Equal(t, 2, stats.Monthly[1].Count)
		assert.Equal(t, int64(20000), stats.Monthly[1].Revenue.Amount)

		// March 2024 has four Mondays at the 100.00 default price.
		require.NotNil(t, stats.PotentialIncome)
		assert.Equal(t, int64(40000), stats.PotentialIncome.Amount)
	})

	t.Run("tenant gets no potential income", func(t *testing.T) {
		stats, err := h.Handle(ctx, dashboardapp.StatsQuery{UserID: "tenant-1", Role: "TENANT"})
		require.NoError(t, err)
		assert.Equal(t, int64(25000), stats.TotalRevenue.Amount)
		assert.Nil(t, stats.PotentialIncome)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := h.Handle(ctx, dashboardapp.StatsQuery{UserID: "x", Role: "NOPE"})
		assert.Error(t, err)
	})
}
