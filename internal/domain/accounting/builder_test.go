package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

func TestEntryBuilder(t *testing.T) {
	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	inventory := id.New()
	payable := id.New()
	cgst := id.New()

	t.Run("numbers lines and sums totals", func(t *testing.T) {
		entry := NewEntry(Reference{Kind: RefPurchase, ID: id.New(), Phase: PhaseConfirmed}, date, "test purchase").
			Debit(inventory, types.MustMoney("1000"), "").
			Debit(cgst, types.MustMoney("90"), "").
			Credit(payable, types.MustMoney("1090"), "").
			Build()

		require.Len(t, entry.Lines, 3)
		for i, line := range entry.Lines {
			assert.Equal(t, i+1, line.LineNo)
		}
		assert.True(t, entry.TotalDebit.Equal(types.MustMoney("1090")))
		assert.True(t, entry.TotalCredit.Equal(types.MustMoney("1090")))
		assert.True(t, entry.Balanced())
		assert.Equal(t, PhaseConfirmed, entry.ReferencePhase)
	})

	t.Run("skips zero amount lines", func(t *testing.T) {
		entry := NewEntry(Reference{Kind: RefPurchase, ID: id.New()}, date, "").
			Debit(inventory, types.MustMoney("500"), "").
			Debit(cgst, types.Zero(), "").
			Credit(payable, types.MustMoney("500"), "").
			Build()

		require.Len(t, entry.Lines, 2)
		assert.Equal(t, 1, entry.Lines[0].LineNo)
		assert.Equal(t, 2, entry.Lines[1].LineNo)
	})

	t.Run("debit and credit sides are exclusive", func(t *testing.T) {
		entry := NewEntry(Reference{Kind: RefWaste, ID: id.New()}, date, "").
			Debit(inventory, types.MustMoney("10"), "").
			Credit(payable, types.MustMoney("10"), "").
			Build()

		assert.True(t, entry.Lines[0].IsDebit())
		assert.Nil(t, entry.Lines[0].CreditLedgerID)
		assert.False(t, entry.Lines[1].IsDebit())
		assert.Nil(t, entry.Lines[1].DebitLedgerID)
	})
}

func TestBuildReversalEntry(t *testing.T) {
	date := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	inventory := id.New()
	payable := id.New()
	orderID := id.New()

	original := NewEntry(Reference{Kind: RefPurchase, ID: orderID, Phase: PhaseConfirmed}, date, "order confirmed").
		Debit(inventory, types.MustMoney("1180"), "").
		Credit(payable, types.MustMoney("1180"), "").
		Build()

	reversal := BuildReversalEntry(original, RefPurchaseReversal, date.AddDate(0, 0, 1), "order cancelled")

	assert.Equal(t, RefPurchaseReversal, reversal.ReferenceKind)
	assert.Equal(t, orderID, reversal.ReferenceID)
	require.NotNil(t, reversal.ReversesEntryID)
	assert.Equal(t, original.ID, *reversal.ReversesEntryID)

	require.Len(t, reversal.Lines, 2)
	// Sides swapped, amounts preserved.
	assert.False(t, reversal.Lines[0].IsDebit())
	assert.Equal(t, inventory, *reversal.Lines[0].CreditLedgerID)
	assert.True(t, reversal.Lines[1].IsDebit())
	assert.Equal(t, payable, *reversal.Lines[1].DebitLedgerID)
	assert.True(t, reversal.Balanced())
	assert.True(t, reversal.TotalDebit.Equal(original.TotalDebit))
}

func TestJournalEntryValidate(t *testing.T) {
	ctx := context.Background()
	date := time.Now()
	ledgerA := id.New()
	ledgerB := id.New()

	t.Run("reference required", func(t *testing.T) {
		entry := NewEntry(Reference{}, date, "").
			Debit(ledgerA, types.MustMoney("1"), "").
			Credit(ledgerB, types.MustMoney("1"), "").
			Build()
		assert.Error(t, entry.Validate(ctx))
	})

	t.Run("lines required", func(t *testing.T) {
		entry := NewEntry(Reference{Kind: RefWaste, ID: id.New()}, date, "").Build()
		assert.Error(t, entry.Validate(ctx))
	})

	t.Run("both sides on one line rejected", func(t *testing.T) {
		entry := NewEntry(Reference{Kind: RefWaste, ID: id.New()}, date, "").
			Debit(ledgerA, types.MustMoney("1"), "").
			Credit(ledgerB, types.MustMoney("1"), "").
			Build()
		entry.Lines[0].CreditLedgerID = &ledgerB
		assert.Error(t, entry.Validate(ctx))
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		entry := NewEntry(Reference{Kind: RefWaste, ID: id.New()}, date, "").
			Debit(ledgerA, types.MustMoney("1"), "").
			Credit(ledgerB, types.MustMoney("1"), "").
			Build()
		entry.Lines[0].Amount = types.MustMoney("-1")
		assert.Error(t, entry.Validate(ctx))
	})

	t.Run("balanced template passes", func(t *testing.T) {
		entry := NewEntry(Reference{Kind: RefConsumption, ID: id.New()}, date, "").
			Debit(ledgerA, types.MustMoney("42.5"), "").
			Credit(ledgerB, types.MustMoney("42.5"), "").
			Build()
		assert.NoError(t, entry.Validate(ctx))
	})
}
