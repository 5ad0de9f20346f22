package rental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
)

func testLine(t *testing.T, id string, finalPrice int64) *rental.Line {
	t.Helper()
	line, err := rental.NewLine(rental.LineParams{
		ID:            rental.LineID(id),
		StallID:       "stall-1",
		StallNumber:   "A1",
		MarketplaceID: "market-1",
		Date:          time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		TenantID:      "tenant-1",
		TenantName:    "Ali",
		OwnerID:       "owner-1",
		GroupID:       "group-1",
		ListPrice:     money.Kurus(finalPrice),
		FinalPrice:    money.Kurus(finalPrice),
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
	return line
}

func paidAmounts(lines []*rental.Line) []int64 {
	out := make([]int64, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.PaidAmount.Amount)
	}
	return out
}

func TestApplyPaymentWaterfall(t *testing.T) {
	t.Run("collection fills lines in creation order", func(t *testing.T) {
		lines := []*rental.Line{
			testLine(t, "l1", 20000),
			testLine(t, "l2", 30000),
			testLine(t, "l3", 50000),
		}
		allocs, err := rental.ApplyPayment(lines, money.Kurus(45000))
		require.NoError(t, err)

		assert.Equal(t, []int64{20000, 25000, 0}, paidAmounts(lines))
		assert.True(t, lines[0].IsPaid)
		assert.False(t, lines[1].IsPaid)
		assert.False(t, lines[2].IsPaid)

		require.Len(t, allocs, 2)
		assert.Equal(t, rental.LineID("l1"), allocs[0].LineID)
		assert.Equal(t, int64(20000), allocs[0].Applied.Amount)
		assert.Equal(t, rental.LineID("l2"), allocs[1].LineID)
		assert.Equal(t, int64(25000), allocs[1].Applied.Amount)
	})

	t.Run("correction drains paid amounts in the same order", func(t *testing.T) {
		lines := []*rental.Line{
			testLine(t, "l1", 20000),
			testLine(t, "l2", 30000),
			testLine(t, "l3", 50000),
		}
		_, err := rental.ApplyPayment(lines, money.Kurus(45000))
		require.NoError(t, err)

		allocs, err := rental.ApplyPayment(lines, money.Kurus(-15000))
		require.NoError(t, err)

		assert.Equal(t, []int64{5000, 25000, 0}, paidAmounts(lines))
		assert.False(t, lines[0].IsPaid)
		require.Len(t, allocs, 1)
		assert.Equal(t, rental.LineID("l1"), allocs[0].LineID)
		assert.Equal(t, int64(-15000), allocs[0].Applied.Amount)
	})

	t.Run("overpayment is rejected without mutation", func(t *testing.T) {
		lines := []*rental.Line{
			testLine(t, "l1", 10000),
			testLine(t, "l2", 10000),
		}
		var overErr *rental.OverpaymentError
		_, err := rental.ApplyPayment(lines, money.Kurus(20001))
		require.ErrorAs(t, err, &overErr)
		assert.Equal(t, int64(20000), overErr.Outstanding.Amount)
		assert.Equal(t, []int64{0, 0}, paidAmounts(lines))
	})

	t.Run("overrefund is rejected without mutation", func(t *testing.T) {
		lines := []*rental.Line{testLine(t, "l1", 10000)}
		_, err := rental.ApplyPayment(lines, money.Kurus(4000))
		require.NoError(t, err)

		var overErr *rental.OverrefundError
		_, err = rental.ApplyPayment(lines, money.Kurus(-4001))
		require.ErrorAs(t, err, &overErr)
		assert.Equal(t, []int64{4000}, paidAmounts(lines))
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		lines := []*rental.Line{testLine(t, "l1", 10000)}
		_, err := rental.ApplyPayment(lines, money.Kurus(0))
		assert.ErrorIs(t, err, rental.ErrZeroAmount)
	})

	t.Run("mixed currency is rejected", func(t *testing.T) {
		lines := []*rental.Line{testLine(t, "l1", 10000)}
		_, err := rental.ApplyPayment(lines, money.Must(100, "USD"))
		assert.ErrorIs(t, err, rental.ErrMixedCurrency)
	})

	t.Run("empty target is rejected", func(t *testing.T) {
		_, err := rental.ApplyPayment(nil, money.Kurus(100))
		assert.ErrorIs(t, err, rental.ErrNoLines)
	})

	t.Run("payment within tolerance snaps to fully paid", func(t *testing.T) {
		lines := []*rental.Line{testLine(t, "l1", 10000)}
		_, err := rental.ApplyPayment(lines, money.Kurus(9995))
		require.NoError(t, err)
		assert.Equal(t, int64(10000), lines[0].PaidAmount.Amount, "residue within tolerance snaps to the final price")
		assert.True(t, lines[0].IsPaid)
	})

	t.Run("refund residue within tolerance snaps to zero", func(t *testing.T) {
		lines := []*rental.Line{testLine(t, "l1", 10000)}
		_, err := rental.ApplyPayment(lines, money.Kurus(5000))
		require.NoError(t, err)
		_, err = rental.ApplyPayment(lines, money.Kurus(-4995))
		require.NoError(t, err)
		assert.Equal(t, int64(0), lines[0].PaidAmount.Amount)
		assert.False(t, lines[0].IsPaid)
	})

	t.Run("full settlement in steps stays within bounds", func(t *testing.T) {
		lines := []*rental.Line{
			testLine(t, "l1", 12345),
			testLine(t, "l2", 67890),
		}
		for _, step := range []int64{10000, 30000, 40235} {
			_, err := rental.ApplyPayment(lines, money.Kurus(step))
			require.NoError(t, err)
		}
		for _, l := range lines {
			assert.Equal(t, l.FinalPrice.Amount, l.PaidAmount.Amount)
			assert.True(t, l.IsPaid)
			assert.Zero(t, l.Outstanding().Amount)
		}
		var overErr *rental.OverpaymentError
		_, err := rental.ApplyPayment(lines, money.Kurus(1))
		assert.ErrorAs(t, err, &overErr, "settled group accepts no further collection")
	})
}
