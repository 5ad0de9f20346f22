package rental_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
)

func TestSplitCommission(t *testing.T) {
	t.Run("ten percent of 123.45", func(t *testing.T) {
		split, err := rental.SplitCommission(money.Kurus(12345), true, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1235), split.Commission.Amount, "1234.5 rounds half up")
		assert.Equal(t, int64(11110), split.OwnerRevenue.Amount)
	})

	t.Run("unmanaged line gives everything to the owner", func(t *testing.T) {
		split, err := rental.SplitCommission(money.Kurus(12345), false, 10)
		require.NoError(t, err)
		assert.Zero(t, split.Commission.Amount)
		assert.Equal(t, int64(12345), split.OwnerRevenue.Amount)
	})

	t.Run("fractional rate", func(t *testing.T) {
		split, err := rental.SplitCommission(money.Kurus(10000), true, 12.5)
		require.NoError(t, err)
		assert.Equal(t, int64(1250), split.Commission.Amount)
		assert.Equal(t, int64(8750), split.OwnerRevenue.Amount)
	})

	t.Run("conservation holds across rates and prices", func(t *testing.T) {
		prices := []int64{1, 99, 10001, 33333, 99999}
		rates := []float64{0, 0.5, 7, 33.33, 50, 100}
		for _, p := range prices {
			for _, r := range rates {
				split, err := rental.SplitCommission(money.Kurus(p), true, r)
				require.NoError(t, err)
				assert.Equal(t, p, split.Commission.Amount+split.OwnerRevenue.Amount,
					"price %d rate %v", p, r)
				assert.GreaterOrEqual(t, split.Commission.Amount, int64(0))
				assert.GreaterOrEqual(t, split.OwnerRevenue.Amount, int64(0))
			}
		}
	})

	t.Run("rejects rates outside 0..100", func(t *testing.T) {
		for _, r := range []float64{-1, 100.01, 1000} {
			_, err := rental.SplitCommission(money.Kurus(100), true, r)
			assert.ErrorIs(t, err, rental.ErrInvalidCommissionRate)
		}
	})
}
