package rental_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tahtam/internal/domain/market"
	"tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
)

func testMarketplace(t *testing.T) *market.Marketplace {
	t.Helper()
	m, err := market.NewMarketplace("market-1", "Salı Pazarı", []market.Weekday{market.Monday, market.Tuesday})
	require.NoError(t, err)
	return m
}

func testStall(t *testing.T, id, number string, defaultPrice int64) *market.Stall {
	t.Helper()
	s, err := market.NewStall(market.StallID(id), "market-1", "owner-1", number, nil, money.Kurus(defaultPrice), time.Now())
	require.NoError(t, err)
	return s
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestAssembleBooking(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	base := func() rental.BookingRequest {
		return rental.BookingRequest{
			Marketplace: testMarketplace(t),
			Stalls:      []*market.Stall{testStall(t, "s1", "A1", 10000), testStall(t, "s2", "A2", 20000)},
			Dates:       []time.Time{monday, tuesday},
			TenantID:    "tenant-1",
			TenantName:  "Ali",
			Now:         time.Now(),
			NewID:       sequentialIDs("id"),
		}
	}

	t.Run("expands stalls by dates in stall-major order", func(t *testing.T) {
		group, err := rental.AssembleBooking(base())
		require.NoError(t, err)
		require.Len(t, group.Lines, 4)

		assert.Equal(t, "A1", group.Lines[0].StallNumber)
		assert.Equal(t, "2024-03-04", group.Lines[0].DateString)
		assert.Equal(t, "A1", group.Lines[1].StallNumber)
		assert.Equal(t, "2024-03-05", group.Lines[1].DateString)
		assert.Equal(t, "A2", group.Lines[2].StallNumber)
		assert.Equal(t, "A2", group.Lines[3].StallNumber)

		assert.NotEmpty(t, group.ID)
		for _, l := range group.Lines {
			assert.Equal(t, group.ID, l.GroupID)
			assert.Zero(t, l.PaidAmount.Amount)
			assert.False(t, l.IsPaid)
		}
		assert.Equal(t, int64(60000), group.FinalPrice().Amount)
	})

	t.Run("negotiated total is prorated over the lines", func(t *testing.T) {
		req := base()
		negotiated := money.Kurus(45000)
		req.NegotiatedTotal = &negotiated
		group, err := rental.AssembleBooking(req)
		require.NoError(t, err)
		assert.Equal(t, negotiated.Amount, group.FinalPrice().Amount)
		for _, l := range group.Lines {
			assert.Equal(t, l.FinalPrice.Amount, l.CommissionAmount.Amount+l.OwnerRevenue.Amount)
		}
	})

	t.Run("single line gets no group id", func(t *testing.T) {
		req := base()
		req.Stalls = req.Stalls[:1]
		req.Dates = req.Dates[:1]
		group, err := rental.AssembleBooking(req)
		require.NoError(t, err)
		require.Len(t, group.Lines, 1)
		assert.Empty(t, group.ID)
		assert.Empty(t, group.Lines[0].GroupID)
	})

	t.Run("duplicate dates collapse", func(t *testing.T) {
		req := base()
		req.Dates = []time.Time{monday, monday, tuesday}
		group, err := rental.AssembleBooking(req)
		require.NoError(t, err)
		assert.Len(t, group.Lines, 4)
	})

	t.Run("closed day is rejected", func(t *testing.T) {
		req := base()
		req.Dates = []time.Time{monday.AddDate(0, 0, 2)} // Wednesday
		_, err := rental.AssembleBooking(req)
		assert.ErrorIs(t, err, rental.ErrMarketClosed)
	})

	t.Run("stall from another market is rejected", func(t *testing.T) {
		req := base()
		foreign, err := market.NewStall("s9", "market-9", "owner-9", "Z9", nil, money.Kurus(100), time.Now())
		require.NoError(t, err)
		req.Stalls = append(req.Stalls, foreign)
		_, err = rental.AssembleBooking(req)
		assert.ErrorIs(t, err, rental.ErrWrongMarket)
	})

	t.Run("managed booking freezes commission onto every line", func(t *testing.T) {
		req := base()
		req.Commission = &rental.CommissionTerms{ManagerID: "manager-1", RatePercent: 10}
		group, err := rental.AssembleBooking(req)
		require.NoError(t, err)
		for _, l := range group.Lines {
			assert.True(t, l.IsManaged)
			assert.Equal(t, "manager-1", l.ManagerID)
			assert.Equal(t, 10.0, l.CommissionRate)
			assert.Positive(t, l.CommissionAmount.Amount)
		}
	})

	t.Run("missing tenant is rejected", func(t *testing.T) {
		req := base()
		req.TenantID = ""
		_, err := rental.AssembleBooking(req)
		assert.ErrorIs(t, err, rental.ErrTenantRequired)
	})

	t.Run("records a creation event", func(t *testing.T) {
		group, err := rental.AssembleBooking(base())
		require.NoError(t, err)
		evts := group.PendingEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, "rental.group_created", evts[0].EventName())
		assert.Equal(t, string(group.ID), evts[0].AggregateID())
	})
}

func TestGroupSummary(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	req := rental.BookingRequest{
		Marketplace: testMarketplace(t),
		Stalls:      []*market.Stall{testStall(t, "s1", "A1", 10000), testStall(t, "s2", "A2", 20000)},
		Dates:       []time.Time{monday, monday.AddDate(0, 0, 1)},
		TenantID:    "tenant-1",
		TenantName:  "Ali",
		Now:         time.Now(),
		NewID:       sequentialIDs("id"),
	}
	group, err := rental.AssembleBooking(req)
	require.NoError(t, err)

	assert.Equal(t, "A1, A2 × 2024-03-04..2024-03-05 (4 days)", group.Summary())

	first, last := group.DateRange()
	assert.Equal(t, "2024-03-04", rental.DateKey(first))
	assert.Equal(t, "2024-03-05", rental.DateKey(last))
}
