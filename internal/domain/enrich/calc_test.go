package enrich

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercatus/internal/core/types"
)

func TestEffectivePrice(t *testing.T) {
	price := EffectivePrice(types.MustMoney("1500.00"), types.MustMoney("300.00"))
	assert.True(t, price.Equal(types.MustMoney("1200.00")))

	// Discount above list price goes negative; the caller decides what to do.
	price = EffectivePrice(types.MustMoney("100"), types.MustMoney("150"))
	assert.True(t, price.Equal(types.MustMoney("-50")))
}

func TestLineAmount(t *testing.T) {
	amount := LineAmount(types.MustMoney("250.50"), types.NewQuantityFromFloat64(3))
	assert.True(t, amount.Equal(types.MustMoney("751.50")))

	amount = LineAmount(types.MustMoney("99.99"), types.NewQuantityFromFloat64(0.5))
	assert.True(t, amount.Equal(types.MustMoney("49.995")))
}

func TestMarginPro(t *testing.T) {
	dealer := types.MustMoney("100")
	effective := types.MustMoney("150")

	margin := MarginPro(&effective, &dealer)
	require.NotNil(t, margin)
	assert.True(t, margin.Equal(types.MustMoney("50.00")), "got %s", margin)

	// Rounded to 2 places.
	dealer = types.MustMoney("300")
	effective = types.MustMoney("400")
	margin = MarginPro(&effective, &dealer)
	require.NotNil(t, margin)
	assert.True(t, margin.Equal(types.MustMoney("33.33")), "got %s", margin)
}

func TestMarginPro_Undefined(t *testing.T) {
	dealer := types.MustMoney("100")
	effective := types.MustMoney("150")
	zero := types.Zero()
	negative := types.MustMoney("-10")

	assert.Nil(t, MarginPro(nil, &dealer))
	assert.Nil(t, MarginPro(&effective, nil))
	assert.Nil(t, MarginPro(&effective, &zero))
	assert.Nil(t, MarginPro(&effective, &negative))
	// Free item: effective price is zero.
	assert.Nil(t, MarginPro(&zero, &dealer))
}

func TestMarginProWithCommission(t *testing.T) {
	dealer := types.MustMoney("100")

	// payout = 200 * (100-25)/100 = 150, margin = 50%
	margin := MarginProWithCommission(types.MustMoney("200"), decimal.NewFromInt(25), &dealer)
	require.NotNil(t, margin)
	assert.True(t, margin.Equal(types.MustMoney("50.00")), "got %s", margin)

	// Zero commission degenerates to plain margin.
	margin = MarginProWithCommission(types.MustMoney("150"), decimal.Zero, &dealer)
	require.NotNil(t, margin)
	assert.True(t, margin.Equal(types.MustMoney("50.00")), "got %s", margin)

	// Commission eating the whole payout leaves nothing to margin on.
	margin = MarginProWithCommission(types.MustMoney("200"), decimal.NewFromInt(100), &dealer)
	assert.Nil(t, margin)

	assert.Nil(t, MarginProWithCommission(types.MustMoney("200"), decimal.NewFromInt(25), nil))
}

func TestCostOfProduction(t *testing.T) {
	cost := CostOfProduction(types.MustMoney("1000"), types.NewQuantityFromFloat64(3))
	require.NotNil(t, cost)
	assert.True(t, cost.Equal(types.MustMoney("333.33")), "got %s", cost)

	assert.Nil(t, CostOfProduction(types.MustMoney("1000"), types.NewQuantityFromFloat64(0)))
	assert.Nil(t, CostOfProduction(types.MustMoney("1000"), types.NewQuantityFromFloat64(-1)))
}

func TestDealerAmount(t *testing.T) {
	dealer := types.MustMoney("450.00")

	amount := DealerAmount(&dealer, types.NewQuantityFromFloat64(2))
	require.NotNil(t, amount)
	assert.True(t, amount.Equal(types.MustMoney("900.00")))

	assert.Nil(t, DealerAmount(nil, types.NewQuantityFromFloat64(2)))
}

func TestSumSkippingNil(t *testing.T) {
	a := types.MustMoney("10.50")
	b := types.MustMoney("20")

	total := SumSkippingNil([]*types.Money{&a, nil, &b})
	assert.True(t, total.Equal(types.MustMoney("30.50")))

	total = SumSkippingNil(nil)
	assert.True(t, total.IsZero())

	total = SumSkippingNil([]*types.Money{nil, nil})
	assert.True(t, total.IsZero())
}
