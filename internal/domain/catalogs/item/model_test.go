package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

func newTestItem() *Item {
	return NewItem("ITM-001", "Bath Towel", id.New(), "pcs", types.MustMoney("250"))
}

func TestItemValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid item", func(t *testing.T) {
		assert.NoError(t, newTestItem().Validate(ctx))
	})

	t.Run("missing category", func(t *testing.T) {
		it := newTestItem()
		it.CategoryID = id.Nil()
		assert.Error(t, it.Validate(ctx))
	})

	t.Run("missing unit", func(t *testing.T) {
		it := newTestItem()
		it.Unit = ""
		assert.Error(t, it.Validate(ctx))
	})

	t.Run("negative unit cost", func(t *testing.T) {
		it := newTestItem()
		it.UnitCost = types.MustMoney("-1")
		assert.Error(t, it.Validate(ctx))
	})

	t.Run("negative complimentary limit", func(t *testing.T) {
		it := newTestItem()
		it.ComplimentaryLimit = -1
		assert.Error(t, it.Validate(ctx))
	})

	t.Run("zero max laundry cycles", func(t *testing.T) {
		it := newTestItem()
		zero := 0
		it.MaxLaundryCycles = &zero
		assert.Error(t, it.Validate(ctx))
	})
}

func TestItemEffectivePrice(t *testing.T) {
	it := newTestItem()

	// No selling price set: cost in all cases.
	assert.True(t, it.EffectivePrice(false).Equal(types.MustMoney("250")))
	assert.True(t, it.EffectivePrice(true).Equal(types.MustMoney("250")))

	selling := types.MustMoney("400")
	it.SellingPrice = &selling

	// Payable lines sell at selling price; internal moves stay at cost.
	assert.True(t, it.EffectivePrice(true).Equal(types.MustMoney("400")))
	assert.True(t, it.EffectivePrice(false).Equal(types.MustMoney("250")))
}

func TestItemBillable(t *testing.T) {
	it := newTestItem()
	assert.False(t, it.Billable())

	it.Sellable = true
	assert.False(t, it.Billable(), "sellable without a price is not billable")

	selling := types.MustMoney("400")
	it.SellingPrice = &selling
	assert.True(t, it.Billable())
}
