package production

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
)

func newTestOutput() *ProductionOutput {
	doc := NewProductionOutput(
		id.New(),
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		types.NewQuantityFromFloat64(10),
		types.MustMoney("4500"),
	)
	doc.Number = "PR-0001"
	return doc
}

func TestProductionOutput_Validate(t *testing.T) {
	ctx := context.Background()

	doc := newTestOutput()
	assert.NoError(t, doc.Validate(ctx))

	t.Run("no nomenclature", func(t *testing.T) {
		doc := newTestOutput()
		doc.NomenclatureID = id.Nil()
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("article instead of nomenclature", func(t *testing.T) {
		doc := newTestOutput()
		doc.NomenclatureID = id.Nil()
		article := "ART-42"
		doc.Article = &article
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("negative count", func(t *testing.T) {
		doc := newTestOutput()
		doc.Count = types.NewQuantityFromFloat64(-1)
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("negative amount", func(t *testing.T) {
		doc := newTestOutput()
		doc.Amount = types.MustMoney("-100")
		assert.Error(t, doc.Validate(ctx))
	})
}

func TestProductionOutput_GenerateProjections_Empty(t *testing.T) {
	doc := newTestOutput()

	set, err := doc.GenerateProjections(context.Background())
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}
