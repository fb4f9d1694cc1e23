// Package enrich provides pure calculations of derived financial fields.
// Every function is deterministic given its inputs and returns nil instead
// of propagating division-by-zero or negative-baseline cases; callers write
// the results back onto documents, nothing here touches storage.
package enrich

import (
	"github.com/shopspring/decimal"

	"mercatus/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the price the buyer actually paid per unit:
// list price minus total discount.
func EffectivePrice(priceList, discountTotal types.Money) types.Money {
	return priceList.Sub(discountTotal)
}

// LineAmount returns the line total: effective price times quantity.
func LineAmount(priceEffective types.Money, qty types.Quantity) types.Money {
	return priceEffective.Mul(decimal.NewFromFloat(qty.Float64()))
}

// MarginPro computes the margin percentage over the dealer price:
//
//	(effective_price - dealer_price) / dealer_price * 100
//
// Defined only when both inputs are positive; any other combination
// (zero or negative dealer price, missing inputs, free items) yields nil.
// The result is rounded to 2 decimal places.
func MarginPro(effectivePrice, dealerPrice *types.Money) *types.Money {
	if effectivePrice == nil || dealerPrice == nil {
		return nil
	}
	if !dealerPrice.IsPositive() || !effectivePrice.IsPositive() {
		return nil
	}

	margin := effectivePrice.Sub(*dealerPrice).
		Div(*dealerPrice).
		Mul(hundred).
		Round(2)
	return &margin
}

// MarginProWithCommission computes the margin over the dealer price from
// the expected seller payout after marketplace commission:
//
//	payout = price_with_discount * (100 - planned_commission_percent) / 100
//	margin = (payout - dealer_price) / dealer_price * 100
//
// Used for marketplaces where the financial report lags the sale and the
// commission is only known as a planned percentage on the connection.
func MarginProWithCommission(priceWithDiscount types.Money, plannedCommissionPercent decimal.Decimal, dealerPrice *types.Money) *types.Money {
	if dealerPrice == nil || !dealerPrice.IsPositive() {
		return nil
	}

	payout := priceWithDiscount.Mul(hundred.Sub(plannedCommissionPercent)).Div(hundred)
	return MarginPro(&payout, dealerPrice)
}

// CostOfProduction returns the unit cost: amount / count when count > 0,
// nil otherwise.
func CostOfProduction(amount types.Money, count types.Quantity) *types.Money {
	if !count.IsPositive() {
		return nil
	}
	cost := amount.Div(decimal.NewFromFloat(count.Float64())).Round(2)
	return &cost
}

// DealerAmount returns the dealer cost of a line: dealer price times
// quantity, nil when the dealer price is unknown.
func DealerAmount(dealerPrice *types.Money, qty types.Quantity) *types.Money {
	if dealerPrice == nil {
		return nil
	}
	amount := dealerPrice.Mul(decimal.NewFromFloat(qty.Float64()))
	return &amount
}

// SumSkippingNil sums per-line values, skipping lines where the value
// could not be computed. Missing inputs reduce the total instead of
// poisoning it.
func SumSkippingNil(values []*types.Money) types.Money {
	total := decimal.Zero
	for _, v := range values {
		if v == nil {
			continue
		}
		total = total.Add(*v)
	}
	return total
}
