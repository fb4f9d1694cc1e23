package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_Conversions(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	assert.Equal(t, int64(25_000), q.Int64Scaled())
	assert.Equal(t, 2.5, q.Float64())

	q = NewQuantityFromInt64Scaled(7_500)
	assert.Equal(t, 0.75, q.Float64())

	// Rounds past the fourth decimal.
	q = NewQuantityFromFloat64(1.00005)
	assert.Equal(t, int64(10_001), q.Int64Scaled())
}

func TestQuantity_Predicates(t *testing.T) {
	assert.True(t, NewQuantityFromFloat64(1).IsPositive())
	assert.True(t, NewQuantityFromFloat64(-1).IsNegative())
	assert.True(t, NewQuantityFromFloat64(0).IsZero())
	assert.False(t, NewQuantityFromFloat64(0).IsPositive())

	assert.Equal(t, NewQuantityFromFloat64(3), NewQuantityFromFloat64(-3).Neg())
	assert.Equal(t, NewQuantityFromFloat64(3), NewQuantityFromFloat64(-3).Abs())
	assert.Equal(t, NewQuantityFromFloat64(3), NewQuantityFromFloat64(3).Abs())
}

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "2.5000", NewQuantityFromFloat64(2.5).String())
	assert.Equal(t, "0.0001", NewQuantityFromInt64Scaled(1).String())
	assert.Equal(t, "-1.2500", NewQuantityFromFloat64(-1.25).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
}

func TestQuantity_JSON(t *testing.T) {
	data, err := json.Marshal(NewQuantityFromFloat64(2.5))
	require.NoError(t, err)
	assert.Equal(t, "2.5000", string(data))

	var q Quantity
	require.NoError(t, json.Unmarshal([]byte("3.25"), &q))
	assert.Equal(t, NewQuantityFromFloat64(3.25), q)

	// String form is accepted too.
	require.NoError(t, json.Unmarshal([]byte(`"-0.5"`), &q))
	assert.Equal(t, NewQuantityFromFloat64(-0.5), q)

	require.NoError(t, json.Unmarshal([]byte("null"), &q))
	assert.True(t, q.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &q))
}

func TestMoney_FromString(t *testing.T) {
	m, err := NewMoneyFromString("1234.56")
	require.NoError(t, err)
	assert.True(t, m.Equal(MustMoney("1234.56")))

	_, err = NewMoneyFromString("not money")
	assert.Error(t, err)

	assert.True(t, Zero().IsZero())
}
