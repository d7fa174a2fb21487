package accounting

import (
	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
)

// Chart is an in-memory view of the chart of accounts, keyed by code.
// Loaded once per posting operation; the chart changes only at seed time.
type Chart struct {
	byCode map[string]*Ledger
	byID   map[id.ID]*Ledger
}

// NewChart builds a chart from the seeded ledgers.
func NewChart(ledgers []*Ledger) *Chart {
	c := &Chart{
		byCode: make(map[string]*Ledger, len(ledgers)),
		byID:   make(map[id.ID]*Ledger, len(ledgers)),
	}
	for _, l := range ledgers {
		c.byCode[l.Code] = l
		c.byID[l.ID] = l
	}
	return c
}

// Ledger returns the ledger for a well-known code.
func (c *Chart) Ledger(code string) (*Ledger, error) {
	l, ok := c.byCode[code]
	if !ok {
		return nil, apperror.NewNotFound("ledger", code)
	}
	return l, nil
}

// LedgerID returns the ledger id for a well-known code.
func (c *Chart) LedgerID(code string) (id.ID, error) {
	l, err := c.Ledger(code)
	if err != nil {
		return id.Nil(), err
	}
	return l.ID, nil
}

// ByID returns the ledger with the given id.
func (c *Chart) ByID(ledgerID id.ID) (*Ledger, error) {
	l, ok := c.byID[ledgerID]
	if !ok {
		return nil, apperror.NewNotFound("ledger", ledgerID.String())
	}
	return l, nil
}

// SeedDefinition describes one ledger of the default chart.
type SeedDefinition struct {
	Code string
	Name string
	Type AccountType
}

// DefaultChart returns the seed chart of accounts.
func DefaultChart() []SeedDefinition {
	return []SeedDefinition{
		{LedgerCash, "Cash", TypeAsset},
		{LedgerBank, "Bank", TypeAsset},
		{LedgerGuestReceivable, "Guest Receivable", TypeAsset},
		{LedgerInventory, "Inventory Asset", TypeAsset},
		{LedgerInputCGST, "Input CGST", TypeAsset},
		{LedgerInputSGST, "Input SGST", TypeAsset},
		{LedgerInputIGST, "Input IGST", TypeAsset},
		{LedgerAccountsPayable, "Accounts Payable", TypeLiability},
		{LedgerOutputCGST, "Output CGST", TypeLiability},
		{LedgerOutputSGST, "Output SGST", TypeLiability},
		{LedgerOutputIGST, "Output IGST", TypeLiability},
		{LedgerRCMLiability, "RCM Liability", TypeLiability},
		{LedgerSalesRevenue, "Sales Revenue", TypeIncome},
		{LedgerCOGS, "Cost of Goods Sold", TypeExpense},
		{LedgerWasteExpense, "Waste Expense", TypeExpense},
		{LedgerWriteOffLoss, "Loss on Write-off", TypeExpense},
	}
}
