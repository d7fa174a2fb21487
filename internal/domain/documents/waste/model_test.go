package waste

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

func TestWasteLogValidate(t *testing.T) {
	ctx := context.Background()
	locID := id.New()
	qty := types.NewQuantityFromFloat64(2)

	t.Run("tracked item waste", func(t *testing.T) {
		w := NewWasteLog(locID, qty, "spoilage", "chef").ForItem(id.New())
		assert.NoError(t, w.Validate(ctx))
		assert.True(t, w.IsTracked())
	})

	t.Run("prepared food waste", func(t *testing.T) {
		w := NewWasteLog(locID, qty, "preparation", "chef").ForFood("buffet leftovers")
		assert.NoError(t, w.Validate(ctx))
		assert.False(t, w.IsTracked())
	})

	t.Run("item and food are mutually exclusive", func(t *testing.T) {
		w := NewWasteLog(locID, qty, "spoilage", "chef").ForItem(id.New()).ForFood("soup")
		assert.Error(t, w.Validate(ctx))
	})

	t.Run("one of item or food required", func(t *testing.T) {
		w := NewWasteLog(locID, qty, "spoilage", "chef")
		assert.Error(t, w.Validate(ctx))
	})

	t.Run("location required", func(t *testing.T) {
		w := NewWasteLog(id.Nil(), qty, "spoilage", "chef").ForItem(id.New())
		assert.Error(t, w.Validate(ctx))
	})

	t.Run("positive quantity required", func(t *testing.T) {
		w := NewWasteLog(locID, 0, "spoilage", "chef").ForItem(id.New())
		assert.Error(t, w.Validate(ctx))
	})

	t.Run("reason required", func(t *testing.T) {
		w := NewWasteLog(locID, qty, "", "chef").ForItem(id.New())
		assert.Error(t, w.Validate(ctx))
	})
}
