package accounting

import (
	"time"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// EntryBuilder assembles a journal entry line by line.
// Zero-amount lines are skipped so templates can pass tax components
// unconditionally.
type EntryBuilder struct {
	entry *JournalEntry
	err   error
}

// NewEntry starts an entry for the given event reference.
func NewEntry(ref Reference, date time.Time, memo string) *EntryBuilder {
	return &EntryBuilder{
		entry: &JournalEntry{
			ID:             id.New(),
			Date:           date,
			ReferenceKind:  ref.Kind,
			ReferenceID:    ref.ID,
			ReferencePhase: ref.Phase,
			Memo:           memo,
			Lines:          make([]JournalLine, 0, 4),
		},
	}
}

// Debit appends a debit line.
func (b *EntryBuilder) Debit(ledgerID id.ID, amount types.Money, memo string) *EntryBuilder {
	return b.line(&ledgerID, nil, amount, memo)
}

// Credit appends a credit line.
func (b *EntryBuilder) Credit(ledgerID id.ID, amount types.Money, memo string) *EntryBuilder {
	return b.line(nil, &ledgerID, amount, memo)
}

// Reverses links the entry to the one it undoes.
func (b *EntryBuilder) Reverses(entryID id.ID) *EntryBuilder {
	b.entry.ReversesEntryID = &entryID
	return b
}

// SelfInvoice attaches an RCM self-invoice number.
func (b *EntryBuilder) SelfInvoice(number string) *EntryBuilder {
	b.entry.SelfInvoice = &number
	return b
}

func (b *EntryBuilder) line(debit, credit *id.ID, amount types.Money, memo string) *EntryBuilder {
	if amount.IsZero() {
		return b
	}
	b.entry.Lines = append(b.entry.Lines, JournalLine{
		LineID:         id.New(),
		LineNo:         len(b.entry.Lines) + 1,
		DebitLedgerID:  debit,
		CreditLedgerID: credit,
		Amount:         amount,
		Memo:           memo,
	})
	return b
}

// Build finalizes totals and returns the entry. Balance is not checked
// here; Post owns that.
func (b *EntryBuilder) Build() *JournalEntry {
	b.entry.TotalDebit = b.entry.Debits()
	b.entry.TotalCredit = b.entry.Credits()
	return b.entry
}

// PurchaseAmounts carries the totals of a confirmed purchase order.
type PurchaseAmounts struct {
	OrderID    id.ID
	Phase      string
	Date       time.Time
	InterState bool
	SubTotal   types.Money
	CGST       types.Money
	SGST       types.Money
	IGST       types.Money
	GrandTotal types.Money
	Memo       string
}

// BuildPurchaseEntry builds the purchase template: Inventory and input
// GST debited, Accounts Payable credited. Intra-state splits CGST+SGST;
// inter-state books IGST only.
func (c *Chart) BuildPurchaseEntry(d PurchaseAmounts) (*JournalEntry, error) {
	inventory, err := c.LedgerID(LedgerInventory)
	if err != nil {
		return nil, err
	}
	payable, err := c.LedgerID(LedgerAccountsPayable)
	if err != nil {
		return nil, err
	}

	b := NewEntry(Reference{Kind: RefPurchase, ID: d.OrderID, Phase: d.Phase}, d.Date, d.Memo).
		Debit(inventory, d.SubTotal, "")

	if d.InterState {
		igst, err := c.LedgerID(LedgerInputIGST)
		if err != nil {
			return nil, err
		}
		b.Debit(igst, d.IGST, "")
	} else {
		cgst, err := c.LedgerID(LedgerInputCGST)
		if err != nil {
			return nil, err
		}
		sgst, err := c.LedgerID(LedgerInputSGST)
		if err != nil {
			return nil, err
		}
		b.Debit(cgst, d.CGST, "").Debit(sgst, d.SGST, "")
	}

	return b.Credit(payable, d.GrandTotal, "").Build(), nil
}

// BuildConsumptionEntry books consumed inventory at cost: COGS debit,
// Inventory credit.
func (c *Chart) BuildConsumptionEntry(issueID id.ID, date time.Time, cost types.Money, memo string) (*JournalEntry, error) {
	cogs, err := c.LedgerID(LedgerCOGS)
	if err != nil {
		return nil, err
	}
	inventory, err := c.LedgerID(LedgerInventory)
	if err != nil {
		return nil, err
	}

	return NewEntry(Reference{Kind: RefConsumption, ID: issueID}, date, memo).
		Debit(cogs, cost, "").
		Credit(inventory, cost, "").
		Build(), nil
}

// GuestBillingAmounts carries the checkout billing totals for one stay.
type GuestBillingAmounts struct {
	StayID     id.ID
	Date       time.Time
	InterState bool

	Revenue    types.Money // selling price total, excl. tax
	OutputCGST types.Money
	OutputSGST types.Money
	OutputIGST types.Money
	Charge     types.Money // revenue + taxes, debited to the guest
	Cost       types.Money // COGS of the billed lines

	Memo string
}

// BuildGuestBillingEntry books revenue and cost for payable allocations
// at checkout: guest receivable and COGS debited; revenue, output GST,
// and inventory credited.
func (c *Chart) BuildGuestBillingEntry(d GuestBillingAmounts) (*JournalEntry, error) {
	receivable, err := c.LedgerID(LedgerGuestReceivable)
	if err != nil {
		return nil, err
	}
	revenue, err := c.LedgerID(LedgerSalesRevenue)
	if err != nil {
		return nil, err
	}
	cogs, err := c.LedgerID(LedgerCOGS)
	if err != nil {
		return nil, err
	}
	inventory, err := c.LedgerID(LedgerInventory)
	if err != nil {
		return nil, err
	}

	b := NewEntry(Reference{Kind: RefGuestBilling, ID: d.StayID}, d.Date, d.Memo).
		Debit(receivable, d.Charge, "").
		Credit(revenue, d.Revenue, "")

	if d.InterState {
		igst, err := c.LedgerID(LedgerOutputIGST)
		if err != nil {
			return nil, err
		}
		b.Credit(igst, d.OutputIGST, "")
	} else {
		cgst, err := c.LedgerID(LedgerOutputCGST)
		if err != nil {
			return nil, err
		}
		sgst, err := c.LedgerID(LedgerOutputSGST)
		if err != nil {
			return nil, err
		}
		b.Credit(cgst, d.OutputCGST, "").Credit(sgst, d.OutputSGST, "")
	}

	return b.Debit(cogs, d.Cost, "").
		Credit(inventory, d.Cost, "").
		Build(), nil
}

// BuildWasteEntry books wasted inventory at cost.
func (c *Chart) BuildWasteEntry(wasteID id.ID, date time.Time, cost types.Money, memo string) (*JournalEntry, error) {
	expense, err := c.LedgerID(LedgerWasteExpense)
	if err != nil {
		return nil, err
	}
	inventory, err := c.LedgerID(LedgerInventory)
	if err != nil {
		return nil, err
	}

	return NewEntry(Reference{Kind: RefWaste, ID: wasteID}, date, memo).
		Debit(expense, cost, "").
		Credit(inventory, cost, "").
		Build(), nil
}

// BuildWriteOffEntry books a retired asset at cost against the loss
// ledger.
func (c *Chart) BuildWriteOffEntry(instanceID id.ID, date time.Time, cost types.Money, memo string) (*JournalEntry, error) {
	loss, err := c.LedgerID(LedgerWriteOffLoss)
	if err != nil {
		return nil, err
	}
	inventory, err := c.LedgerID(LedgerInventory)
	if err != nil {
		return nil, err
	}

	return NewEntry(Reference{Kind: RefWriteOff, ID: instanceID}, date, memo).
		Debit(loss, cost, "").
		Credit(inventory, cost, "").
		Build(), nil
}

// BuildReversalEntry mirrors an entry with sides swapped.
func BuildReversalEntry(original *JournalEntry, kind RefKind, date time.Time, memo string) *JournalEntry {
	b := NewEntry(Reference{Kind: kind, ID: original.ReferenceID}, date, memo).
		Reverses(original.ID)

	for _, line := range original.Lines {
		if line.IsDebit() {
			b.Credit(*line.DebitLedgerID, line.Amount, line.Memo)
		} else {
			b.Debit(*line.CreditLedgerID, line.Amount, line.Memo)
		}
	}

	return b.Build()
}

// RCMExpenseAmounts carries a reverse-charge expense: the recipient
// books the input tax and owes it as a liability.
type RCMExpenseAmounts struct {
	ExpenseLedgerID id.ID
	Date            time.Time
	InterState      bool

	Amount types.Money // expense net of tax
	CGST   types.Money
	SGST   types.Money
	IGST   types.Money

	// PaidFromBank selects Bank over Cash for the payment credit
	PaidFromBank bool

	Memo string
}

// BuildRCMExpenseEntry books an expense under reverse charge: expense
// and input GST debited; cash/bank credited for the net amount and RCM
// liability credited for the tax.
func (c *Chart) BuildRCMExpenseEntry(refID id.ID, d RCMExpenseAmounts) (*JournalEntry, error) {
	paymentCode := LedgerCash
	if d.PaidFromBank {
		paymentCode = LedgerBank
	}
	payment, err := c.LedgerID(paymentCode)
	if err != nil {
		return nil, err
	}
	liability, err := c.LedgerID(LedgerRCMLiability)
	if err != nil {
		return nil, err
	}

	b := NewEntry(Reference{Kind: RefRCMExpense, ID: refID}, d.Date, d.Memo).
		Debit(d.ExpenseLedgerID, d.Amount, "")

	taxTotal := d.CGST.Add(d.SGST).Add(d.IGST)
	if d.InterState {
		igst, err := c.LedgerID(LedgerInputIGST)
		if err != nil {
			return nil, err
		}
		b.Debit(igst, d.IGST, "")
	} else {
		cgst, err := c.LedgerID(LedgerInputCGST)
		if err != nil {
			return nil, err
		}
		sgst, err := c.LedgerID(LedgerInputSGST)
		if err != nil {
			return nil, err
		}
		b.Debit(cgst, d.CGST, "").Debit(sgst, d.SGST, "")
	}

	return b.Credit(payment, d.Amount, "").
		Credit(liability, taxTotal, "").
		Build(), nil
}
