package mptransaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
)

func newTestTransaction(opType OperationType, amount string) *MarketplaceTransaction {
	return NewMarketplaceTransaction(
		id.New(), "Ozon", "TX-0001",
		opType,
		time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		types.MustMoney(amount),
	)
}

func TestMarketplaceTransaction_Validate(t *testing.T) {
	ctx := context.Background()

	doc := newTestTransaction(OpCommission, "-150.50")
	assert.NoError(t, doc.Validate(ctx))

	t.Run("invalid operation type", func(t *testing.T) {
		doc := newTestTransaction("refund", "100")
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("zero operation date", func(t *testing.T) {
		doc := newTestTransaction(OpSale, "100")
		doc.OperationDate = time.Time{}
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("no connection", func(t *testing.T) {
		doc := newTestTransaction(OpSale, "100")
		doc.ConnectionID = id.Nil()
		assert.Error(t, doc.Validate(ctx))
	})
}

func TestMarketplaceTransaction_GenerateProjections_Buckets(t *testing.T) {
	ctx := context.Background()

	t.Run("sale accrual", func(t *testing.T) {
		doc := newTestTransaction(OpSale, "1200")
		set, err := doc.GenerateProjections(ctx)
		require.NoError(t, err)
		require.Len(t, set.SalesData, 1)
		row := set.SalesData[0]
		assert.True(t, row.CustomerIn.Equal(types.MustMoney("1200")))
		assert.True(t, row.Total.Equal(types.MustMoney("1200")))
	})

	t.Run("commission charge", func(t *testing.T) {
		doc := newTestTransaction(OpCommission, "-234.50")
		set, err := doc.GenerateProjections(ctx)
		require.NoError(t, err)
		row := set.SalesData[0]
		// Bucket holds the magnitude, the total keeps the sign.
		assert.True(t, row.CommissionOut.Equal(types.MustMoney("234.50")))
		assert.True(t, row.Total.Equal(types.MustMoney("-234.50")))
		assert.True(t, row.CustomerIn.IsZero())
	})

	t.Run("logistics charge", func(t *testing.T) {
		doc := newTestTransaction(OpLogistics, "-80")
		set, err := doc.GenerateProjections(ctx)
		require.NoError(t, err)
		row := set.SalesData[0]
		assert.True(t, row.LogisticsOut.Equal(types.MustMoney("80")))
		assert.True(t, row.Total.Equal(types.MustMoney("-80")))
	})

	t.Run("return reversal", func(t *testing.T) {
		doc := newTestTransaction(OpReturn, "-1200")
		set, err := doc.GenerateProjections(ctx)
		require.NoError(t, err)
		row := set.SalesData[0]
		assert.True(t, row.CustomerOut.Equal(types.MustMoney("1200")))
		assert.True(t, row.Total.Equal(types.MustMoney("-1200")))
	})

	t.Run("penalty charge", func(t *testing.T) {
		doc := newTestTransaction(OpPenalty, "-500")
		set, err := doc.GenerateProjections(ctx)
		require.NoError(t, err)
		row := set.SalesData[0]
		assert.True(t, row.PenaltyOut.Equal(types.MustMoney("500")))
	})

	t.Run("acquiring fee", func(t *testing.T) {
		doc := newTestTransaction(OpAcquiring, "-36")
		set, err := doc.GenerateProjections(ctx)
		require.NoError(t, err)
		assert.True(t, set.SalesData[0].AcquiringOut.Equal(types.MustMoney("36")))
	})

	t.Run("seller services", func(t *testing.T) {
		doc := newTestTransaction(OpServices, "-99")
		set, err := doc.GenerateProjections(ctx)
		require.NoError(t, err)
		assert.True(t, set.SalesData[0].SellerOut.Equal(types.MustMoney("99")))
	})
}

func TestMarketplaceTransaction_GenerateProjections_RowIdentity(t *testing.T) {
	ctx := context.Background()
	doc := newTestTransaction(OpCommission, "-10")
	doc.SellerSKU = "SKU-1"

	set, err := doc.GenerateProjections(ctx)
	require.NoError(t, err)
	require.Len(t, set.SalesData, 1)
	require.Empty(t, set.SalesRegister)

	row := set.SalesData[0]
	assert.Equal(t, doc.ID, row.RegistratorID)
	assert.Equal(t, "MarketplaceTransaction", row.RegistratorType)
	assert.Equal(t, "op-1", row.LineID)
	assert.Equal(t, "TX-0001", row.DocumentNo)
	assert.Equal(t, "SKU-1", row.Article)
	assert.Equal(t, doc.OperationDate, row.Date)
}

func TestMarketplaceTransaction_ClearSaleLink(t *testing.T) {
	doc := newTestTransaction(OpSale, "1200")

	saleID := id.New()
	saleType := "MarketplaceSale"
	doc.SaleID = &saleID
	doc.SaleType = &saleType

	doc.ClearSaleLink()

	assert.Nil(t, doc.SaleID)
	assert.Nil(t, doc.SaleType)
}
