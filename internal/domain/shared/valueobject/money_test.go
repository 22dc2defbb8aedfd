package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyIDR(decimal.NewFromInt(5_000_000))
	b := NewMoneyIDR(decimal.NewFromInt(1_500_000))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "IDR 6500000.00", sum.String())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(3_500_000)))

	product := b.Multiply(decimal.NewFromInt(2))
	assert.True(t, product.Amount().Equal(decimal.NewFromInt(3_000_000)))

	quotient, err := a.Divide(decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, quotient.Amount().Equal(decimal.NewFromInt(1_250_000)))

	_, err = a.Divide(decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	idr := NewMoneyIDR(decimal.NewFromInt(100))
	usd, err := NewMoney(decimal.NewFromInt(100), USD)
	require.NoError(t, err)

	_, err = idr.Add(usd)
	assert.Error(t, err)
	_, err = idr.Subtract(usd)
	assert.Error(t, err)
	_, err = idr.LessThan(usd)
	assert.Error(t, err)
	_, err = idr.GreaterThan(usd)
	assert.Error(t, err)
}

func TestMoney_Comparison(t *testing.T) {
	small := NewMoneyIDR(decimal.NewFromInt(100))
	large := NewMoneyIDR(decimal.NewFromInt(200))

	less, err := small.LessThan(large)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := large.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, small.Equals(NewMoneyIDR(decimal.NewFromInt(100))))
	assert.False(t, small.Equals(large))
}

func TestMoney_Round(t *testing.T) {
	m := NewMoneyIDR(decimal.RequireFromString("106618.545"))
	assert.Equal(t, "106618.55", m.Round(2).Amount().StringFixed(2))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroIDR().IsZero())
	assert.True(t, NewMoneyIDR(decimal.NewFromInt(1)).IsPositive())
	assert.True(t, NewMoneyIDR(decimal.NewFromInt(-1)).IsNegative())
}
