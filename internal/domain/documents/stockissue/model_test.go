package stockissue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

func TestStockIssueValidate(t *testing.T) {
	ctx := context.Background()
	source := id.New()

	t.Run("valid consumption issue", func(t *testing.T) {
		doc := NewStockIssue(source, nil, "chef")
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(2), types.MustMoney("18"), false, nil)
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("source required", func(t *testing.T) {
		doc := NewStockIssue(id.Nil(), nil, "chef")
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("1"), false, nil)
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("destination must differ from source", func(t *testing.T) {
		dest := source
		doc := NewStockIssue(source, &dest, "chef")
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("1"), false, nil)
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("lines required", func(t *testing.T) {
		doc := NewStockIssue(source, nil, "chef")
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("positive quantity required", func(t *testing.T) {
		doc := NewStockIssue(source, nil, "chef")
		doc.AddLine(id.New(), 0, types.MustMoney("1"), false, nil)
		assert.Error(t, doc.Validate(ctx))
	})
}

func TestStockIssueLines(t *testing.T) {
	doc := NewStockIssue(id.New(), nil, "housekeeping")
	rental := types.MustMoney("150")
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("450"), false, nil)
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), rental, true, &rental)

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, 2, doc.Lines[1].LineNo)
	assert.False(t, doc.Lines[0].IsPayable)
	assert.True(t, doc.Lines[1].IsPayable)
	assert.False(t, doc.Lines[1].IsPaid)
	require.NotNil(t, doc.Lines[1].RentalPrice)
	assert.True(t, doc.Lines[1].RentalPrice.Equal(rental))
}

func TestStockIssueKind(t *testing.T) {
	doc := NewStockIssue(id.New(), nil, "chef")
	doc.Kind = KindConsumption
	assert.True(t, doc.IsConsumption())

	doc.Kind = KindTransfer
	assert.False(t, doc.IsConsumption())
	assert.Equal(t, "StockIssue", doc.GetDocumentType())
}
