package accounting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"atithi/internal/core/apperror"
	appctx "atithi/internal/core/context"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/tx"
	"atithi/internal/core/types"
	"atithi/internal/domain"
	"atithi/pkg/logger"
)

// Entry numbers are monotonic per calendar year.
var entryNumberConfig = numerator.Config{
	Prefix:      "JE",
	IncludeYear: true,
	PadWidth:    4,
	ResetPeriod: "year",
}

// Self-invoice numbers for reverse-charge expenses.
var selfInvoiceConfig = numerator.Config{
	Prefix:      "SLF",
	IncludeYear: true,
	PadWidth:    3,
	ResetPeriod: "year",
}

// Service posts journal entries and answers accounting queries.
// Post runs inside the caller's transaction; the movement service is
// the only mutating caller.
type Service struct {
	ledgers   LedgerRepository
	journal   JournalRepository
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new accounting service.
func NewService(ledgers LedgerRepository, journal JournalRepository, numGen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		ledgers:   ledgers,
		journal:   journal,
		numerator: numGen,
		txManager: txManager,
	}
}

// Chart loads the chart of accounts for template building.
func (s *Service) Chart(ctx context.Context) (*Chart, error) {
	ledgers, err := s.ledgers.GetChart(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chart: %w", err)
	}
	return NewChart(ledgers), nil
}

// Post writes a balanced journal entry inside the caller's transaction.
// Idempotent per (reference kind, reference id): when an entry already
// exists it is returned unchanged and nothing is written. For purchases
// this is what merges the confirmed and received phases into one entry.
// An unbalanced entry fails LEDGER_IMBALANCE and rolls the caller back.
func (s *Service) Post(ctx context.Context, entry *JournalEntry) (*JournalEntry, error) {
	if err := entry.Validate(ctx); err != nil {
		return nil, err
	}

	debits := entry.Debits()
	credits := entry.Credits()
	if !debits.Equal(credits) {
		return nil, apperror.NewLedgerImbalance(
			fmt.Sprintf("%s/%s", entry.ReferenceKind, entry.ReferenceID),
			debits.String(),
			credits.String(),
		)
	}

	existing, err := s.journal.GetByReference(ctx, entry.ReferenceKind, entry.ReferenceID)
	if err == nil {
		lines, err := s.journal.GetLines(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("load lines: %w", err)
		}
		existing.Lines = lines
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("check reference: %w", err)
	}

	number, err := s.numerator.GetNextNumber(ctx, entryNumberConfig, nil, entry.Date)
	if err != nil {
		return nil, fmt.Errorf("generate entry number: %w", err)
	}
	entry.Number = number
	entry.TotalDebit = debits
	entry.TotalCredit = credits
	entry.CreatedAt = time.Now().UTC()
	entry.CreatedBy = appctx.GetUserID(ctx)

	if err := s.journal.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	logger.Info(ctx, "journal entry posted",
		"number", entry.Number,
		"reference_kind", entry.ReferenceKind,
		"reference_id", entry.ReferenceID,
		"amount", debits.String(),
	)

	return entry, nil
}

// PostReversal mirrors the entry posted for (kind, refID) with sides
// swapped. Used when a confirmed purchase order is cancelled.
func (s *Service) PostReversal(ctx context.Context, kind RefKind, refID id.ID, reversalKind RefKind, date time.Time, memo string) (*JournalEntry, error) {
	original, err := s.journal.GetByReference(ctx, kind, refID)
	if err != nil {
		return nil, fmt.Errorf("load original entry: %w", err)
	}

	lines, err := s.journal.GetLines(ctx, original.ID)
	if err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	original.Lines = lines

	return s.Post(ctx, BuildReversalEntry(original, reversalKind, date, memo))
}

// PostRCMExpense books an expense under the reverse charge mechanism in
// its own transaction, assigning an SLF self-invoice number.
func (s *Service) PostRCMExpense(ctx context.Context, d RCMExpenseAmounts) (*JournalEntry, error) {
	var posted *JournalEntry

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		chart, err := s.Chart(ctx)
		if err != nil {
			return err
		}

		selfInvoice, err := s.numerator.GetNextNumber(ctx, selfInvoiceConfig, nil, d.Date)
		if err != nil {
			return fmt.Errorf("generate self-invoice number: %w", err)
		}

		entry, err := chart.BuildRCMExpenseEntry(id.New(), d)
		if err != nil {
			return err
		}
		entry.SelfInvoice = &selfInvoice

		posted, err = s.Post(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	return posted, nil
}

// GetEntry retrieves an entry with its lines.
func (s *Service) GetEntry(ctx context.Context, entryID id.ID) (*JournalEntry, error) {
	entry, err := s.journal.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journal.GetLines(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	entry.Lines = lines

	return entry, nil
}

// GetEntryByReference retrieves the entry for an event reference.
func (s *Service) GetEntryByReference(ctx context.Context, kind RefKind, refID id.ID) (*JournalEntry, error) {
	entry, err := s.journal.GetByReference(ctx, kind, refID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journal.GetLines(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	entry.Lines = lines

	return entry, nil
}

// ListEntries lists journal entry headers.
func (s *Service) ListEntries(ctx context.Context, filter EntryFilter) (domain.ListResult[*JournalEntry], error) {
	return s.journal.List(ctx, filter)
}

// TrialBalanceRow is one ledger's period activity and balance.
type TrialBalanceRow struct {
	LedgerID id.ID       `json:"ledgerId"`
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Debits   types.Money `json:"debits"`
	Credits  types.Money `json:"credits"`
	Balance  types.Money `json:"balance"`
}

// TrialBalanceSection groups rows of one account type.
type TrialBalanceSection struct {
	Type AccountType       `json:"type"`
	Rows []TrialBalanceRow `json:"rows"`
}

// TrialBalance is the summed ledger activity over a period.
type TrialBalance struct {
	Start        time.Time             `json:"start"`
	End          time.Time             `json:"end"`
	Sections     []TrialBalanceSection `json:"sections"`
	TotalDebits  types.Money           `json:"totalDebits"`
	TotalCredits types.Money           `json:"totalCredits"`
	Balanced     bool                  `json:"balanced"`
}

var trialBalanceOrder = []AccountType{TypeAsset, TypeLiability, TypeEquity, TypeIncome, TypeExpense}

// TrialBalance sums ledger activity for the period, grouped by account
// type. Global debits must equal global credits; a mismatch means a
// broken entry slipped past Post and is reported, not hidden.
func (s *Service) TrialBalance(ctx context.Context, start, end time.Time) (TrialBalance, error) {
	result := TrialBalance{
		Start:        start,
		End:          end,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	chart, err := s.Chart(ctx)
	if err != nil {
		return result, err
	}

	totals, err := s.journal.LedgerTotals(ctx, start, end)
	if err != nil {
		return result, fmt.Errorf("ledger totals: %w", err)
	}

	byType := make(map[AccountType][]TrialBalanceRow)
	for _, t := range totals {
		ledger, err := chart.ByID(t.LedgerID)
		if err != nil {
			return result, err
		}

		byType[ledger.Type] = append(byType[ledger.Type], TrialBalanceRow{
			LedgerID: t.LedgerID,
			Code:     ledger.Code,
			Name:     ledger.Name,
			Debits:   t.Debits,
			Credits:  t.Credits,
			Balance:  ledger.Balance(t.Debits, t.Credits),
		})

		result.TotalDebits = result.TotalDebits.Add(t.Debits)
		result.TotalCredits = result.TotalCredits.Add(t.Credits)
	}

	for _, accType := range trialBalanceOrder {
		rows := byType[accType]
		if len(rows) == 0 {
			continue
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
		result.Sections = append(result.Sections, TrialBalanceSection{
			Type: accType,
			Rows: rows,
		})
	}

	result.Balanced = result.TotalDebits.Equal(result.TotalCredits)
	if !result.Balanced {
		logger.Error(ctx, "trial balance out of balance",
			"debits", result.TotalDebits.String(),
			"credits", result.TotalCredits.String(),
		)
	}

	return result, nil
}

// GSTSummary totals input and output GST over a period.
type GSTSummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	InputCGST  types.Money `json:"inputCgst"`
	InputSGST  types.Money `json:"inputSgst"`
	InputIGST  types.Money `json:"inputIgst"`
	OutputCGST types.Money `json:"outputCgst"`
	OutputSGST types.Money `json:"outputSgst"`
	OutputIGST types.Money `json:"outputIgst"`

	// NetLiability is output total minus input total; negative means a
	// carry-forward credit
	NetLiability types.Money `json:"netLiability"`
}

// GSTSummary sums input and output GST ledger activity for the period.
func (s *Service) GSTSummary(ctx context.Context, start, end time.Time) (GSTSummary, error) {
	result := GSTSummary{
		Start:      start,
		End:        end,
		InputCGST:  decimal.Zero,
		InputSGST:  decimal.Zero,
		InputIGST:  decimal.Zero,
		OutputCGST: decimal.Zero,
		OutputSGST: decimal.Zero,
		OutputIGST: decimal.Zero,
	}

	chart, err := s.Chart(ctx)
	if err != nil {
		return result, err
	}

	totals, err := s.journal.LedgerTotals(ctx, start, end)
	if err != nil {
		return result, fmt.Errorf("ledger totals: %w", err)
	}

	for _, t := range totals {
		ledger, err := chart.ByID(t.LedgerID)
		if err != nil {
			return result, err
		}

		balance := ledger.Balance(t.Debits, t.Credits)
		switch ledger.Code {
		case LedgerInputCGST:
			result.InputCGST = balance
		case LedgerInputSGST:
			result.InputSGST = balance
		case LedgerInputIGST:
			result.InputIGST = balance
		case LedgerOutputCGST:
			result.OutputCGST = balance
		case LedgerOutputSGST:
			result.OutputSGST = balance
		case LedgerOutputIGST:
			result.OutputIGST = balance
		}
	}

	output := result.OutputCGST.Add(result.OutputSGST).Add(result.OutputIGST)
	input := result.InputCGST.Add(result.InputSGST).Add(result.InputIGST)
	result.NetLiability = output.Sub(input)

	return result, nil
}
