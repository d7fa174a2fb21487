package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

func TestComputeTotals(t *testing.T) {
	t.Run("intra-state splits rate into CGST and SGST", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		// 10 x 100 @ 18% GST
		po.AddLine(id.New(), types.NewQuantityFromFloat64(10), types.MustMoney("100"), types.MustMoney("18"))

		po.ComputeTotals(false)

		assert.False(t, po.InterState)
		assert.True(t, po.SubTotal.Equal(types.MustMoney("1000")))
		assert.True(t, po.CGST.Equal(types.MustMoney("90")))
		assert.True(t, po.SGST.Equal(types.MustMoney("90")))
		assert.True(t, po.IGST.IsZero())
		assert.True(t, po.GrandTotal.Equal(types.MustMoney("1180")))
	})

	t.Run("inter-state books the full rate as IGST", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		po.AddLine(id.New(), types.NewQuantityFromFloat64(10), types.MustMoney("100"), types.MustMoney("18"))

		po.ComputeTotals(true)

		assert.True(t, po.InterState)
		assert.True(t, po.CGST.IsZero())
		assert.True(t, po.SGST.IsZero())
		assert.True(t, po.IGST.Equal(types.MustMoney("180")))
		assert.True(t, po.GrandTotal.Equal(types.MustMoney("1180")))
	})

	t.Run("line amounts rounded to 4dp before summing", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		// 3 x 9.9999 @ 5%: line total 29.9997, tax 1.499985,
		// half 0.7499925 rounds to 0.75.
		po.AddLine(id.New(), types.NewQuantityFromFloat64(3), types.MustMoney("9.9999"), types.MustMoney("5"))

		po.ComputeTotals(false)

		line := po.Lines[0]
		assert.True(t, line.LineTotal.Equal(types.MustMoney("29.9997")))
		assert.True(t, line.CGST.Equal(types.MustMoney("0.75")))
		assert.True(t, line.SGST.Equal(types.MustMoney("0.75")))

		// Totals are exact sums of the rounded lines.
		assert.True(t, po.GrandTotal.Equal(types.MustMoney("31.4997")))
	})

	t.Run("multiple lines with mixed rates", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		po.AddLine(id.New(), types.NewQuantityFromFloat64(100), types.MustMoney("18"), types.MustMoney("12"))
		po.AddLine(id.New(), types.NewQuantityFromFloat64(50), types.MustMoney("22.5"), types.MustMoney("18"))

		po.ComputeTotals(false)

		assert.True(t, po.SubTotal.Equal(types.MustMoney("2925")))
		// line 1: tax 216, half 108; line 2: tax 202.5, half 101.25
		assert.True(t, po.CGST.Equal(types.MustMoney("209.25")))
		assert.True(t, po.SGST.Equal(types.MustMoney("209.25")))
		assert.True(t, po.GrandTotal.Equal(types.MustMoney("3343.5")))
	})

	t.Run("recompute is stable", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		po.AddLine(id.New(), types.NewQuantityFromFloat64(7), types.MustMoney("33.33"), types.MustMoney("18"))

		po.ComputeTotals(true)
		first := po.GrandTotal
		po.ComputeTotals(true)
		assert.True(t, po.GrandTotal.Equal(first))
	})
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	newDraft := func() *PurchaseOrder {
		po := NewPurchaseOrder(id.New(), id.New())
		po.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("10"), types.MustMoney("0"))
		return po
	}

	t.Run("draft to confirmed to received", func(t *testing.T) {
		po := newDraft()
		require.NoError(t, po.Confirm())
		assert.Equal(t, StatusConfirmed, po.Status)
		require.NoError(t, po.MarkReceived())
		assert.Equal(t, StatusReceived, po.Status)
		assert.True(t, po.IsReceived())
	})

	t.Run("cannot receive a draft", func(t *testing.T) {
		po := newDraft()
		err := po.MarkReceived()
		assert.True(t, apperror.IsCode(err, apperror.CodeStateConflict))
	})

	t.Run("cannot confirm twice", func(t *testing.T) {
		po := newDraft()
		require.NoError(t, po.Confirm())
		assert.Error(t, po.Confirm())
	})

	t.Run("cancel from draft and confirmed", func(t *testing.T) {
		po := newDraft()
		require.NoError(t, po.Cancel())
		assert.Equal(t, StatusCancelled, po.Status)

		po = newDraft()
		require.NoError(t, po.Confirm())
		require.NoError(t, po.Cancel())
	})

	t.Run("received is terminal", func(t *testing.T) {
		po := newDraft()
		require.NoError(t, po.Confirm())
		require.NoError(t, po.MarkReceived())

		err := po.Cancel()
		assert.True(t, apperror.IsCode(err, apperror.CodeStateConflict))
	})
}

func TestPurchaseOrderValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid order passes", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		po.AddLine(id.New(), types.NewQuantityFromFloat64(5), types.MustMoney("20"), types.MustMoney("12"))
		assert.NoError(t, po.Validate(ctx))
	})

	t.Run("vendor required", func(t *testing.T) {
		po := NewPurchaseOrder(id.Nil(), id.New())
		po.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("1"), types.MustMoney("0"))
		assert.Error(t, po.Validate(ctx))
	})

	t.Run("lines required", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		assert.Error(t, po.Validate(ctx))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		po.AddLine(id.New(), 0, types.MustMoney("1"), types.MustMoney("0"))
		assert.Error(t, po.Validate(ctx))
	})

	t.Run("negative price rejected", func(t *testing.T) {
		po := NewPurchaseOrder(id.New(), id.New())
		po.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("-5"), types.MustMoney("0"))
		assert.Error(t, po.Validate(ctx))
	})
}
