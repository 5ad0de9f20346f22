package market_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tahtam/internal/domain/market"
	"tahtam/internal/domain/shared/money"
)

func TestParseWeekday(t *testing.T) {
	day, err := market.ParseWeekday("TUESDAY")
	require.NoError(t, err)
	assert.Equal(t, market.Tuesday, day)

	_, err = market.ParseWeekday("FUNDAY")
	assert.ErrorIs(t, err, market.ErrInvalidWeekday)
}

func TestWeekdayOf(t *testing.T) {
	// 2024-03-04 is a Monday.
	monday := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, market.Monday, market.WeekdayOf(monday))
	assert.Equal(t, market.Sunday, market.WeekdayOf(monday.AddDate(0, 0, 6)))
}

func TestNewMarketplace(t *testing.T) {
	t.Run("rejects empty open days", func(t *testing.T) {
		_, err := market.NewMarketplace("m1", "Kadıköy Salı Pazarı", nil)
		assert.ErrorIs(t, err, market.ErrNoOpenDays)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := market.NewMarketplace("m1", "", []market.Weekday{market.Monday})
		assert.ErrorIs(t, err, market.ErrNameRequired)
	})

	t.Run("dedupes days", func(t *testing.T) {
		m, err := market.NewMarketplace("m1", "Pazar", []market.Weekday{market.Monday, market.Monday, market.Friday})
		require.NoError(t, err)
		assert.Equal(t, []market.Weekday{market.Monday, market.Friday}, m.OpenDays)
		assert.True(t, m.OpenOn(market.Friday))
		assert.False(t, m.OpenOn(market.Sunday))
	})

	t.Run("rejects invalid day", func(t *testing.T) {
		_, err := market.NewMarketplace("m1", "Pazar", []market.Weekday{"NODAY"})
		assert.ErrorIs(t, err, market.ErrInvalidWeekday)
	})
}

func TestStallPriceFor(t *testing.T) {
	prices := market.PriceTable{
		market.Saturday: money.Kurus(50000),
	}
	stall, err := market.NewStall("s1", "m1", "owner-1", "A1", prices, money.Kurus(30000), time.Now())
	require.NoError(t, err)

	saturday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(50000), stall.PriceFor(saturday).Amount)

	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(30000), stall.PriceFor(monday).Amount, "days without an entry fall back to the default price")
}

func TestNewStallValidation(t *testing.T) {
	t.Run("requires number", func(t *testing.T) {
		_, err := market.NewStall("s1", "m1", "owner-1", "", nil, money.Kurus(100), time.Now())
		assert.ErrorIs(t, err, market.ErrStallNumberMissing)
	})

	t.Run("rejects negative default", func(t *testing.T) {
		_, err := market.NewStall("s1", "m1", "owner-1", "A1", nil, money.Kurus(-1), time.Now())
		assert.ErrorIs(t, err, market.ErrNegativePrice)
	})

	t.Run("rejects negative table entry", func(t *testing.T) {
		prices := market.PriceTable{market.Monday: money.Kurus(-5)}
		_, err := market.NewStall("s1", "m1", "owner-1", "A1", prices, money.Kurus(100), time.Now())
		assert.ErrorIs(t, err, market.ErrNegativePrice)
	})
}
