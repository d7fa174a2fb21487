// Package accounting provides the double-entry accounting engine: the
// chart of accounts, journal entries, and the posting service consumed
// by the movement service.
package accounting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// AccountType classifies a ledger and fixes its normal balance side.
type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeIncome    AccountType = "income"
	TypeExpense   AccountType = "expense"
)

// Valid reports whether the account type is known.
func (t AccountType) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeIncome, TypeExpense:
		return true
	}
	return false
}

// NormalDebit reports whether balances on this side grow with debits.
func (t AccountType) NormalDebit() bool {
	return t == TypeAsset || t == TypeExpense
}

// Well-known ledger codes seeded into the chart of accounts.
const (
	LedgerCash            = "CASH"
	LedgerBank            = "BANK"
	LedgerGuestReceivable = "AR_GUEST"
	LedgerAccountsPayable = "AP_VENDOR"
	LedgerInventory       = "INVENTORY"
	LedgerInputCGST       = "GST_INPUT_CGST"
	LedgerInputSGST       = "GST_INPUT_SGST"
	LedgerInputIGST       = "GST_INPUT_IGST"
	LedgerOutputCGST      = "GST_OUTPUT_CGST"
	LedgerOutputSGST      = "GST_OUTPUT_SGST"
	LedgerOutputIGST      = "GST_OUTPUT_IGST"
	LedgerSalesRevenue    = "SALES_REVENUE"
	LedgerCOGS            = "COGS"
	LedgerWasteExpense    = "WASTE_EXPENSE"
	LedgerWriteOffLoss    = "WRITEOFF_LOSS"
	LedgerRCMLiability    = "RCM_LIABILITY"
)

// AccountGroup groups ledgers of one account type.
type AccountGroup struct {
	entity.Catalog

	Type AccountType `db:"account_type" json:"accountType"`
}

// Validate implements entity.Validatable.
func (g *AccountGroup) Validate(ctx context.Context) error {
	if err := g.Catalog.Validate(ctx); err != nil {
		return err
	}
	if !g.Type.Valid() {
		return apperror.NewValidation("unknown account type").
			WithDetail("field", "accountType")
	}
	return nil
}

// Ledger is one account in the chart. The normal balance side is fixed
// at seed time through the account type.
type Ledger struct {
	entity.Catalog

	GroupID *id.ID      `db:"group_id" json:"groupId,omitempty"`
	Type    AccountType `db:"account_type" json:"accountType"`
}

// Validate implements entity.Validatable.
func (l *Ledger) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}
	if !l.Type.Valid() {
		return apperror.NewValidation("unknown account type").
			WithDetail("field", "accountType")
	}
	return nil
}

// Balance computes a ledger balance from period sums, honoring the
// normal balance side.
func (l *Ledger) Balance(debits, credits types.Money) types.Money {
	if l.Type.NormalDebit() {
		return debits.Sub(credits)
	}
	return credits.Sub(debits)
}

// RefKind names the originating event of a journal entry.
type RefKind string

const (
	RefPurchase         RefKind = "purchase"
	RefPurchaseReversal RefKind = "purchase_reversal"
	RefConsumption      RefKind = "consumption"
	RefGuestBilling     RefKind = "guest_billing"
	RefWaste            RefKind = "waste"
	RefWriteOff         RefKind = "write_off"
	RefRCMExpense       RefKind = "rcm_expense"
)

// Posting phases for multi-phase references. Only purchases post in two
// phases, merged into a single entry.
const (
	PhaseConfirmed = "confirmed"
	PhaseReceived  = "received"
)

// Reference ties a journal entry back to the event that produced it.
// At most one entry exists per (Kind, ID); Phase records which phase of
// a multi-phase reference actually produced the entry.
type Reference struct {
	Kind  RefKind `json:"kind"`
	ID    id.ID   `json:"id"`
	Phase string  `json:"phase,omitempty"`
}

// JournalEntry is one balanced set of debit and credit lines.
// Entries are append-only; corrections post as reversals.
type JournalEntry struct {
	ID     id.ID     `db:"id" json:"id"`
	Number string    `db:"number" json:"number"`
	Date   time.Time `db:"date" json:"date"`

	ReferenceKind  RefKind `db:"reference_kind" json:"referenceKind"`
	ReferenceID    id.ID   `db:"reference_id" json:"referenceId"`
	ReferencePhase string  `db:"reference_phase" json:"referencePhase,omitempty"`

	Memo string `db:"memo" json:"memo,omitempty"`

	// ReversesEntryID links a reversal to the entry it undoes
	ReversesEntryID *id.ID `db:"reverses_entry_id" json:"reversesEntryId,omitempty"`

	// SelfInvoice carries the SLF number for RCM expense entries
	SelfInvoice *string `db:"self_invoice" json:"selfInvoice,omitempty"`

	TotalDebit  types.Money `db:"total_debit" json:"totalDebit"`
	TotalCredit types.Money `db:"total_credit" json:"totalCredit"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`

	Lines []JournalLine `db:"-" json:"lines"`
}

// JournalLine is one side of an entry: exactly one of DebitLedgerID and
// CreditLedgerID is set.
type JournalLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	DebitLedgerID  *id.ID `db:"debit_ledger_id" json:"debitLedgerId,omitempty"`
	CreditLedgerID *id.ID `db:"credit_ledger_id" json:"creditLedgerId,omitempty"`

	Amount types.Money `db:"amount" json:"amount"`
	Memo   string      `db:"memo" json:"memo,omitempty"`
}

// IsDebit reports which side the line sits on.
func (l JournalLine) IsDebit() bool {
	return l.DebitLedgerID != nil
}

// Reference returns the entry's event reference.
func (e *JournalEntry) Reference() Reference {
	return Reference{Kind: e.ReferenceKind, ID: e.ReferenceID, Phase: e.ReferencePhase}
}

// Debits sums the debit-side line amounts.
func (e *JournalEntry) Debits() types.Money {
	total := decimal.Zero
	for _, line := range e.Lines {
		if line.IsDebit() {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// Credits sums the credit-side line amounts.
func (e *JournalEntry) Credits() types.Money {
	total := decimal.Zero
	for _, line := range e.Lines {
		if !line.IsDebit() {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// Balanced reports whether debits equal credits.
func (e *JournalEntry) Balanced() bool {
	return e.Debits().Equal(e.Credits())
}

// Validate checks line shape. Balance is checked separately in Post so
// an imbalance surfaces as LEDGER_IMBALANCE, not a validation error.
func (e *JournalEntry) Validate(ctx context.Context) error {
	if e.ReferenceKind == "" || id.IsNil(e.ReferenceID) {
		return apperror.NewValidation("entry reference is required").
			WithDetail("field", "reference")
	}

	if len(e.Lines) == 0 {
		return apperror.NewValidation("entry has no lines").
			WithDetail("field", "lines")
	}

	for i, line := range e.Lines {
		hasDebit := line.DebitLedgerID != nil && !id.IsNil(*line.DebitLedgerID)
		hasCredit := line.CreditLedgerID != nil && !id.IsNil(*line.CreditLedgerID)
		if hasDebit == hasCredit {
			return apperror.NewValidation("line must have exactly one of debit or credit ledger").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Amount.IsPositive() {
			return apperror.NewValidation("line amount must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
