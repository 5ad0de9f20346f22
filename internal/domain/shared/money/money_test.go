package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tahtam/internal/domain/shared/money"
)

func TestNew(t *testing.T) {
	t.Run("valid currency", func(t *testing.T) {
		m, err := money.New(12345, "try")
		require.NoError(t, err)
		assert.Equal(t, int64(12345), m.Amount)
		assert.Equal(t, "TRY", m.Currency)
	})

	t.Run("invalid currency", func(t *testing.T) {
		_, err := money.New(100, "tl")
		assert.ErrorIs(t, err, money.ErrInvalidCurrency)
	})
}

func TestArithmetic(t *testing.T) {
	a := money.Kurus(1000)
	b := money.Kurus(250)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, int64(1250), sum.Amount)
	})

	t.Run("sub", func(t *testing.T) {
		diff, err := a.Sub(b)
		require.NoError(t, err)
		assert.Equal(t, int64(750), diff.Amount)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		usd := money.Must(100, "USD")
		_, err := a.Add(usd)
		assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
	})

	t.Run("neg and predicates", func(t *testing.T) {
		n := b.Neg()
		assert.Equal(t, int64(-250), n.Amount)
		assert.True(t, n.IsNegative())
		assert.False(t, n.IsPositive())
		assert.True(t, money.Zero("TRY").IsZero())
	})

	t.Run("min", func(t *testing.T) {
		assert.Equal(t, b, money.Min(a, b))
		assert.Equal(t, b, money.Min(b, a))
	})
}

func TestString(t *testing.T) {
	assert.Equal(t, "123.45 TRY", money.Kurus(12345).String())
	assert.Equal(t, "-1.05 TRY", money.Kurus(-105).String())
	assert.Equal(t, "0.09 TRY", money.Kurus(9).String())
}
