package accounting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/types"
	"atithi/internal/domain"
)

type fakeLedgerRepo struct {
	ledgers []*Ledger
}

func (f *fakeLedgerRepo) Create(ctx context.Context, ledger *Ledger) error { return nil }
func (f *fakeLedgerRepo) Update(ctx context.Context, ledger *Ledger) error { return nil }

func (f *fakeLedgerRepo) GetByID(ctx context.Context, ledgerID id.ID) (*Ledger, error) {
	for _, l := range f.ledgers {
		if l.ID == ledgerID {
			return l, nil
		}
	}
	return nil, apperror.NewNotFound("ledger", ledgerID)
}

func (f *fakeLedgerRepo) GetByCode(ctx context.Context, code string) (*Ledger, error) {
	for _, l := range f.ledgers {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, apperror.NewNotFound("ledger", code)
}

func (f *fakeLedgerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Ledger], error) {
	return domain.ListResult[*Ledger]{Items: f.ledgers, TotalCount: int64(len(f.ledgers))}, nil
}

func (f *fakeLedgerRepo) GetChart(ctx context.Context) ([]*Ledger, error) {
	return f.ledgers, nil
}

type fakeJournalRepo struct {
	entries []*JournalEntry
	totals  []LedgerTotal
}

func (f *fakeJournalRepo) CreateEntry(ctx context.Context, entry *JournalEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournalRepo) GetByID(ctx context.Context, entryID id.ID) (*JournalEntry, error) {
	for _, e := range f.entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("journal entry", entryID)
}

func (f *fakeJournalRepo) GetByNumber(ctx context.Context, number string) (*JournalEntry, error) {
	for _, e := range f.entries {
		if e.Number == number {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("journal entry", number)
}

func (f *fakeJournalRepo) GetByReference(ctx context.Context, kind RefKind, refID id.ID) (*JournalEntry, error) {
	for _, e := range f.entries {
		if e.ReferenceKind == kind && e.ReferenceID == refID {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("journal entry", refID)
}

func (f *fakeJournalRepo) GetLines(ctx context.Context, entryID id.ID) ([]JournalLine, error) {
	entry, err := f.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return entry.Lines, nil
}

func (f *fakeJournalRepo) List(ctx context.Context, filter EntryFilter) (domain.ListResult[*JournalEntry], error) {
	return domain.ListResult[*JournalEntry]{Items: f.entries, TotalCount: int64(len(f.entries))}, nil
}

func (f *fakeJournalRepo) LedgerTotals(ctx context.Context, start, end time.Time) ([]LedgerTotal, error) {
	return f.totals, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *Chart, *fakeJournalRepo, *countingNumerator) {
	t.Helper()
	chart := testChart(t)
	ledgers := make([]*Ledger, 0, len(chart.byCode))
	for _, l := range chart.byCode {
		ledgers = append(ledgers, l)
	}

	journal := &fakeJournalRepo{}
	numGen := &countingNumerator{}
	svc := NewService(&fakeLedgerRepo{ledgers: ledgers}, journal, numGen, fakeTxManager{})
	return svc, chart, journal, numGen
}

type countingNumerator struct {
	numerator.MockGenerator
	calls int
}

func (c *countingNumerator) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	c.calls++
	return fmt.Sprintf("%s-%d-%04d", cfg.Prefix, period.Year(), c.calls), nil
}

func TestServicePost(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)

	t.Run("assigns number and persists", func(t *testing.T) {
		svc, chart, journal, numGen := newTestService(t)

		entry, err := chart.BuildConsumptionEntry(id.New(), date, types.MustMoney("120"), "")
		require.NoError(t, err)

		posted, err := svc.Post(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, "JE-2026-0001", posted.Number)
		assert.True(t, posted.TotalDebit.Equal(types.MustMoney("120")))
		assert.Len(t, journal.entries, 1)
		assert.Equal(t, 1, numGen.calls)
	})

	t.Run("rejects unbalanced entry", func(t *testing.T) {
		svc, chart, journal, _ := newTestService(t)

		inv := mustLedgerID(t, chart, LedgerInventory)
		ap := mustLedgerID(t, chart, LedgerAccountsPayable)
		entry := NewEntry(Reference{Kind: RefPurchase, ID: id.New()}, date, "").
			Debit(inv, types.MustMoney("100"), "").
			Credit(ap, types.MustMoney("90"), "").
			Build()

		_, err := svc.Post(ctx, entry)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeLedgerImbalance))
		assert.Empty(t, journal.entries)
	})

	t.Run("idempotent per reference", func(t *testing.T) {
		svc, chart, journal, numGen := newTestService(t)

		issueID := id.New()
		first, err := chart.BuildConsumptionEntry(issueID, date, types.MustMoney("75"), "")
		require.NoError(t, err)
		posted, err := svc.Post(ctx, first)
		require.NoError(t, err)

		second, err := chart.BuildConsumptionEntry(issueID, date, types.MustMoney("75"), "")
		require.NoError(t, err)
		replayed, err := svc.Post(ctx, second)
		require.NoError(t, err)

		assert.Equal(t, posted.ID, replayed.ID)
		assert.Equal(t, posted.Number, replayed.Number)
		assert.Len(t, journal.entries, 1)
		assert.Equal(t, 1, numGen.calls)
	})
}

func TestServicePostReversal(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	svc, chart, journal, _ := newTestService(t)

	orderID := id.New()
	entry, err := chart.BuildPurchaseEntry(PurchaseAmounts{
		OrderID:    orderID,
		Phase:      PhaseConfirmed,
		Date:       date,
		SubTotal:   types.MustMoney("1000"),
		CGST:       types.MustMoney("90"),
		SGST:       types.MustMoney("90"),
		GrandTotal: types.MustMoney("1180"),
	})
	require.NoError(t, err)
	original, err := svc.Post(ctx, entry)
	require.NoError(t, err)

	reversal, err := svc.PostReversal(ctx, RefPurchase, orderID, RefPurchaseReversal, date.AddDate(0, 0, 2), "cancelled")
	require.NoError(t, err)

	assert.Equal(t, RefPurchaseReversal, reversal.ReferenceKind)
	assert.Equal(t, orderID, reversal.ReferenceID)
	require.NotNil(t, reversal.ReversesEntryID)
	assert.Equal(t, original.ID, *reversal.ReversesEntryID)
	assert.True(t, reversal.Balanced())
	assert.Len(t, journal.entries, 2)

	// AP now debited, inventory credited.
	ap := lineFor(t, reversal, mustLedgerID(t, chart, LedgerAccountsPayable))
	assert.True(t, ap.IsDebit())
	assert.True(t, ap.Amount.Equal(types.MustMoney("1180")))
}

func TestServicePostRCMExpense(t *testing.T) {
	ctx := context.Background()
	svc, chart, journal, _ := newTestService(t)

	posted, err := svc.PostRCMExpense(ctx, RCMExpenseAmounts{
		ExpenseLedgerID: mustLedgerID(t, chart, LedgerCOGS),
		Date:            time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC),
		Amount:          types.MustMoney("3000"),
		CGST:            types.MustMoney("270"),
		SGST:            types.MustMoney("270"),
	})
	require.NoError(t, err)

	require.NotNil(t, posted.SelfInvoice)
	assert.Contains(t, *posted.SelfInvoice, "SLF-")
	assert.True(t, posted.Balanced())
	assert.Len(t, journal.entries, 1)
}

func TestTrialBalance(t *testing.T) {
	ctx := context.Background()
	svc, chart, journal, _ := newTestService(t)

	inv := mustLedgerID(t, chart, LedgerInventory)
	ap := mustLedgerID(t, chart, LedgerAccountsPayable)
	cogs := mustLedgerID(t, chart, LedgerCOGS)

	journal.totals = []LedgerTotal{
		{LedgerID: ap, Debits: types.Zero(), Credits: types.MustMoney("1000")},
		{LedgerID: inv, Debits: types.MustMoney("1000"), Credits: types.MustMoney("300")},
		{LedgerID: cogs, Debits: types.MustMoney("300"), Credits: types.Zero()},
	}

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	tb, err := svc.TrialBalance(ctx, start, end)
	require.NoError(t, err)

	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebits.Equal(types.MustMoney("1300")))
	assert.True(t, tb.TotalCredits.Equal(types.MustMoney("1300")))

	// Sections in statement order: assets, then liabilities, then expenses.
	require.Len(t, tb.Sections, 3)
	assert.Equal(t, TypeAsset, tb.Sections[0].Type)
	assert.Equal(t, TypeLiability, tb.Sections[1].Type)
	assert.Equal(t, TypeExpense, tb.Sections[2].Type)

	invRow := tb.Sections[0].Rows[0]
	assert.Equal(t, LedgerInventory, invRow.Code)
	assert.True(t, invRow.Balance.Equal(types.MustMoney("700")))

	apRow := tb.Sections[1].Rows[0]
	assert.True(t, apRow.Balance.Equal(types.MustMoney("1000")))
}

func TestGSTSummary(t *testing.T) {
	ctx := context.Background()
	svc, chart, journal, _ := newTestService(t)

	journal.totals = []LedgerTotal{
		{LedgerID: mustLedgerID(t, chart, LedgerInputCGST), Debits: types.MustMoney("90"), Credits: types.Zero()},
		{LedgerID: mustLedgerID(t, chart, LedgerInputSGST), Debits: types.MustMoney("90"), Credits: types.Zero()},
		{LedgerID: mustLedgerID(t, chart, LedgerOutputCGST), Debits: types.Zero(), Credits: types.MustMoney("150")},
		{LedgerID: mustLedgerID(t, chart, LedgerOutputSGST), Debits: types.Zero(), Credits: types.MustMoney("150")},
	}

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	summary, err := svc.GSTSummary(ctx, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)

	assert.True(t, summary.InputCGST.Equal(types.MustMoney("90")))
	assert.True(t, summary.OutputCGST.Equal(types.MustMoney("150")))
	assert.True(t, summary.NetLiability.Equal(types.MustMoney("120")))
}
