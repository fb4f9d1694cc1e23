package mpsale

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
)

func newTestSale() *MarketplaceSale {
	doc := NewMarketplaceSale(id.New(), "WB", "WB-0001", time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC))
	doc.AddLine("SKU-1", "100", "Футболка", types.NewQuantityFromFloat64(2), types.MustMoney("1500"), types.MustMoney("300"))
	return doc
}

func TestMarketplaceSale_Validate(t *testing.T) {
	ctx := context.Background()

	doc := newTestSale()
	assert.NoError(t, doc.Validate(ctx))

	t.Run("no lines", func(t *testing.T) {
		doc := NewMarketplaceSale(id.New(), "WB", "WB-0002", time.Now())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("line without identifiers", func(t *testing.T) {
		doc := newTestSale()
		doc.AddLine("", "", "Безымянный", types.NewQuantityFromFloat64(1), types.MustMoney("100"), types.Zero())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		doc := newTestSale()
		doc.AddLine("SKU-2", "101", "Кружка", types.NewQuantityFromFloat64(0), types.MustMoney("100"), types.Zero())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("negative list price", func(t *testing.T) {
		doc := newTestSale()
		doc.AddLine("SKU-2", "101", "Кружка", types.NewQuantityFromFloat64(1), types.MustMoney("-1"), types.Zero())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("no connection", func(t *testing.T) {
		doc := newTestSale()
		doc.ConnectionID = id.Nil()
		assert.Error(t, doc.Validate(ctx))
	})
}

func TestMarketplaceSale_AddLine_Numbering(t *testing.T) {
	doc := newTestSale()
	doc.AddLine("SKU-2", "101", "Кружка", types.NewQuantityFromFloat64(1), types.MustMoney("200"), types.Zero())

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, 2, doc.Lines[1].LineNo)
	assert.NotEqual(t, doc.Lines[0].LineID, doc.Lines[1].LineID)
}

func TestMarketplaceSale_GenerateProjections(t *testing.T) {
	ctx := context.Background()

	doc := newTestSale()
	doc.AddLine("SKU-2", "101", "Кружка", types.NewQuantityFromFloat64(1), types.MustMoney("200"), types.Zero())

	// Simulate what posting preparation fills in.
	orgID := id.New()
	doc.OrganizationID = &orgID
	nomID := id.New()
	dealer := types.MustMoney("450")
	doc.Lines[0].NomenclatureID = &nomID
	doc.Lines[0].DealerPrice = &dealer
	doc.Lines[0].PriceEffective = types.MustMoney("1200")
	doc.Lines[0].AmountLine = types.MustMoney("2400")
	doc.Lines[1].PriceEffective = types.MustMoney("200")
	doc.Lines[1].AmountLine = types.MustMoney("200")

	set, err := doc.GenerateProjections(ctx)
	require.NoError(t, err)

	require.Len(t, set.SalesRegister, 2)
	require.Len(t, set.SalesData, 2)

	row := set.SalesRegister[0]
	assert.Equal(t, doc.ID, row.RegistratorID)
	assert.Equal(t, "MarketplaceSale", row.RegistratorType)
	assert.Equal(t, doc.Lines[0].LineID.String(), row.LineID)
	assert.Equal(t, "WB-0001", row.DocumentNo)
	assert.Equal(t, &nomID, row.NomenclatureID)
	assert.Equal(t, &orgID, row.OrganizationID)
	assert.True(t, row.AmountLine.Equal(types.MustMoney("2400")))

	// Unresolved line still lands in the register with nil nomenclature.
	assert.Nil(t, set.SalesRegister[1].NomenclatureID)

	data := set.SalesData[0]
	assert.True(t, data.CustomerIn.Equal(types.MustMoney("2400")))
	require.NotNil(t, data.Cost)
	assert.True(t, data.Cost.Equal(types.MustMoney("900")))
	assert.Nil(t, set.SalesData[1].Cost)
}

func TestMarketplaceSale_GenerateProjections_VersionAheadOfFlag(t *testing.T) {
	ctx := context.Background()
	doc := newTestSale()

	// Rows are generated before the flag flips, so they carry the
	// version the document will have after posting.
	set, err := doc.GenerateProjections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, set.SalesRegister[0].RegistratorVersion)

	doc.MarkPosted()
	set, err = doc.GenerateProjections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, set.SalesRegister[0].RegistratorVersion)
}

func TestMarketplaceSale_TotalAmount(t *testing.T) {
	doc := newTestSale()
	doc.AddLine("SKU-2", "101", "Кружка", types.NewQuantityFromFloat64(1), types.MustMoney("200"), types.Zero())
	doc.Lines[0].AmountLine = types.MustMoney("2400")
	doc.Lines[1].AmountLine = types.MustMoney("200")

	assert.True(t, doc.TotalAmount().Equal(types.MustMoney("2600")))
}
