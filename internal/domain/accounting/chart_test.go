package accounting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// testChart builds a chart from the seed definitions with fresh ids.
func testChart(t *testing.T) *Chart {
	t.Helper()
	defs := DefaultChart()
	ledgers := make([]*Ledger, 0, len(defs))
	for _, def := range defs {
		l := &Ledger{Type: def.Type}
		l.ID = id.New()
		l.Code = def.Code
		l.Name = def.Name
		ledgers = append(ledgers, l)
	}
	return NewChart(ledgers)
}

func mustLedgerID(t *testing.T, c *Chart, code string) id.ID {
	t.Helper()
	lid, err := c.LedgerID(code)
	require.NoError(t, err)
	return lid
}

// lineFor finds the line touching the ledger, on either side.
func lineFor(t *testing.T, entry *JournalEntry, ledgerID id.ID) JournalLine {
	t.Helper()
	for _, line := range entry.Lines {
		if line.DebitLedgerID != nil && *line.DebitLedgerID == ledgerID {
			return line
		}
		if line.CreditLedgerID != nil && *line.CreditLedgerID == ledgerID {
			return line
		}
	}
	t.Fatalf("no line for ledger %s", ledgerID)
	return JournalLine{}
}

func TestChartLookups(t *testing.T) {
	c := testChart(t)

	l, err := c.Ledger(LedgerInventory)
	require.NoError(t, err)
	assert.Equal(t, LedgerInventory, l.Code)
	assert.Equal(t, TypeAsset, l.Type)

	byID, err := c.ByID(l.ID)
	require.NoError(t, err)
	assert.Same(t, l, byID)

	_, err = c.Ledger("NO_SUCH_LEDGER")
	assert.True(t, apperror.IsNotFound(err))
	_, err = c.ByID(id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestDefaultChartCoversTemplates(t *testing.T) {
	c := testChart(t)

	codes := []string{
		LedgerCash, LedgerBank, LedgerGuestReceivable, LedgerInventory,
		LedgerInputCGST, LedgerInputSGST, LedgerInputIGST,
		LedgerAccountsPayable, LedgerOutputCGST, LedgerOutputSGST, LedgerOutputIGST,
		LedgerRCMLiability, LedgerSalesRevenue, LedgerCOGS,
		LedgerWasteExpense, LedgerWriteOffLoss,
	}
	for _, code := range codes {
		_, err := c.Ledger(code)
		assert.NoError(t, err, code)
	}
}

func TestBuildPurchaseEntry(t *testing.T) {
	c := testChart(t)
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	orderID := id.New()

	t.Run("intra-state splits CGST and SGST", func(t *testing.T) {
		entry, err := c.BuildPurchaseEntry(PurchaseAmounts{
			OrderID:    orderID,
			Phase:      PhaseConfirmed,
			Date:       date,
			InterState: false,
			SubTotal:   types.MustMoney("1000"),
			CGST:       types.MustMoney("90"),
			SGST:       types.MustMoney("90"),
			GrandTotal: types.MustMoney("1180"),
		})
		require.NoError(t, err)

		require.Len(t, entry.Lines, 4)
		assert.True(t, entry.Balanced())
		assert.Equal(t, RefPurchase, entry.ReferenceKind)
		assert.Equal(t, PhaseConfirmed, entry.ReferencePhase)

		inv := lineFor(t, entry, mustLedgerID(t, c, LedgerInventory))
		assert.True(t, inv.IsDebit())
		assert.True(t, inv.Amount.Equal(types.MustMoney("1000")))

		ap := lineFor(t, entry, mustLedgerID(t, c, LedgerAccountsPayable))
		assert.False(t, ap.IsDebit())
		assert.True(t, ap.Amount.Equal(types.MustMoney("1180")))

		cgst := lineFor(t, entry, mustLedgerID(t, c, LedgerInputCGST))
		assert.True(t, cgst.IsDebit())
		assert.True(t, cgst.Amount.Equal(types.MustMoney("90")))
	})

	t.Run("inter-state books IGST only", func(t *testing.T) {
		entry, err := c.BuildPurchaseEntry(PurchaseAmounts{
			OrderID:    id.New(),
			Phase:      PhaseConfirmed,
			Date:       date,
			InterState: true,
			SubTotal:   types.MustMoney("1000"),
			IGST:       types.MustMoney("180"),
			GrandTotal: types.MustMoney("1180"),
		})
		require.NoError(t, err)

		require.Len(t, entry.Lines, 3)
		assert.True(t, entry.Balanced())

		igst := lineFor(t, entry, mustLedgerID(t, c, LedgerInputIGST))
		assert.True(t, igst.IsDebit())
		assert.True(t, igst.Amount.Equal(types.MustMoney("180")))
	})

	t.Run("zero GST leaves two lines", func(t *testing.T) {
		entry, err := c.BuildPurchaseEntry(PurchaseAmounts{
			OrderID:    id.New(),
			Phase:      PhaseConfirmed,
			Date:       date,
			SubTotal:   types.MustMoney("500"),
			GrandTotal: types.MustMoney("500"),
		})
		require.NoError(t, err)
		assert.Len(t, entry.Lines, 2)
		assert.True(t, entry.Balanced())
	})
}

func TestBuildConsumptionEntry(t *testing.T) {
	c := testChart(t)
	entry, err := c.BuildConsumptionEntry(id.New(), time.Now(), types.MustMoney("250"), "kitchen issue")
	require.NoError(t, err)

	require.Len(t, entry.Lines, 2)
	cogs := lineFor(t, entry, mustLedgerID(t, c, LedgerCOGS))
	assert.True(t, cogs.IsDebit())
	inv := lineFor(t, entry, mustLedgerID(t, c, LedgerInventory))
	assert.False(t, inv.IsDebit())
	assert.True(t, entry.Balanced())
	assert.Equal(t, RefConsumption, entry.ReferenceKind)
}

func TestBuildGuestBillingEntry(t *testing.T) {
	c := testChart(t)
	stayID := id.New()
	date := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	entry, err := c.BuildGuestBillingEntry(GuestBillingAmounts{
		StayID:     stayID,
		Date:       date,
		Revenue:    types.MustMoney("200"),
		OutputCGST: types.MustMoney("12"),
		OutputSGST: types.MustMoney("12"),
		Charge:     types.MustMoney("224"),
		Cost:       types.MustMoney("90"),
	})
	require.NoError(t, err)

	assert.True(t, entry.Balanced())
	assert.Equal(t, RefGuestBilling, entry.ReferenceKind)
	assert.Equal(t, stayID, entry.ReferenceID)

	recv := lineFor(t, entry, mustLedgerID(t, c, LedgerGuestReceivable))
	assert.True(t, recv.IsDebit())
	assert.True(t, recv.Amount.Equal(types.MustMoney("224")))

	rev := lineFor(t, entry, mustLedgerID(t, c, LedgerSalesRevenue))
	assert.False(t, rev.IsDebit())
	assert.True(t, rev.Amount.Equal(types.MustMoney("200")))

	cogs := lineFor(t, entry, mustLedgerID(t, c, LedgerCOGS))
	assert.True(t, cogs.IsDebit())
	assert.True(t, cogs.Amount.Equal(types.MustMoney("90")))

	inv := lineFor(t, entry, mustLedgerID(t, c, LedgerInventory))
	assert.False(t, inv.IsDebit())
	assert.True(t, inv.Amount.Equal(types.MustMoney("90")))
}

func TestBuildWasteAndWriteOffEntries(t *testing.T) {
	c := testChart(t)

	waste, err := c.BuildWasteEntry(id.New(), time.Now(), types.MustMoney("75"), "spoilage")
	require.NoError(t, err)
	assert.True(t, waste.Balanced())
	assert.True(t, lineFor(t, waste, mustLedgerID(t, c, LedgerWasteExpense)).IsDebit())

	writeOff, err := c.BuildWriteOffEntry(id.New(), time.Now(), types.MustMoney("450"), "torn towel")
	require.NoError(t, err)
	assert.True(t, writeOff.Balanced())
	assert.True(t, lineFor(t, writeOff, mustLedgerID(t, c, LedgerWriteOffLoss)).IsDebit())
	assert.Equal(t, RefWriteOff, writeOff.ReferenceKind)
}

func TestBuildRCMExpenseEntry(t *testing.T) {
	c := testChart(t)
	expense := id.New()

	t.Run("intra-state paid from cash", func(t *testing.T) {
		entry, err := c.BuildRCMExpenseEntry(id.New(), RCMExpenseAmounts{
			ExpenseLedgerID: expense,
			Date:            time.Now(),
			Amount:          types.MustMoney("5000"),
			CGST:            types.MustMoney("450"),
			SGST:            types.MustMoney("450"),
		})
		require.NoError(t, err)

		assert.True(t, entry.Balanced())
		assert.Equal(t, RefRCMExpense, entry.ReferenceKind)

		cash := lineFor(t, entry, mustLedgerID(t, c, LedgerCash))
		assert.False(t, cash.IsDebit())
		assert.True(t, cash.Amount.Equal(types.MustMoney("5000")))

		liability := lineFor(t, entry, mustLedgerID(t, c, LedgerRCMLiability))
		assert.False(t, liability.IsDebit())
		assert.True(t, liability.Amount.Equal(types.MustMoney("900")))
	})

	t.Run("inter-state paid from bank", func(t *testing.T) {
		entry, err := c.BuildRCMExpenseEntry(id.New(), RCMExpenseAmounts{
			ExpenseLedgerID: expense,
			Date:            time.Now(),
			InterState:      true,
			Amount:          types.MustMoney("5000"),
			IGST:            types.MustMoney("900"),
			PaidFromBank:    true,
		})
		require.NoError(t, err)

		assert.True(t, entry.Balanced())
		bank := lineFor(t, entry, mustLedgerID(t, c, LedgerBank))
		assert.False(t, bank.IsDebit())
		igst := lineFor(t, entry, mustLedgerID(t, c, LedgerInputIGST))
		assert.True(t, igst.IsDebit())
		assert.True(t, igst.Amount.Equal(types.MustMoney("900")))
	})
}
