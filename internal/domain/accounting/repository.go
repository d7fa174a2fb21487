package accounting

import (
	"context"
	"time"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain"
)

// GroupRepository defines operations for account groups.
type GroupRepository interface {
	Create(ctx context.Context, group *AccountGroup) error
	Update(ctx context.Context, group *AccountGroup) error
	GetByID(ctx context.Context, groupID id.ID) (*AccountGroup, error)
	GetByCode(ctx context.Context, code string) (*AccountGroup, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*AccountGroup], error)
}

// LedgerRepository defines operations for chart-of-accounts ledgers.
type LedgerRepository interface {
	Create(ctx context.Context, ledger *Ledger) error
	Update(ctx context.Context, ledger *Ledger) error
	GetByID(ctx context.Context, ledgerID id.ID) (*Ledger, error)
	GetByCode(ctx context.Context, code string) (*Ledger, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Ledger], error)

	// GetChart loads every active ledger for chart lookups.
	GetChart(ctx context.Context) ([]*Ledger, error)
}

// JournalRepository defines operations for journal entries.
// Entries are append-only; there is no update or delete.
type JournalRepository interface {
	// CreateEntry inserts the entry and its lines.
	CreateEntry(ctx context.Context, entry *JournalEntry) error

	GetByID(ctx context.Context, entryID id.ID) (*JournalEntry, error)
	GetByNumber(ctx context.Context, number string) (*JournalEntry, error)

	// GetByReference returns the entry posted for (kind, id), or NotFound.
	GetByReference(ctx context.Context, kind RefKind, refID id.ID) (*JournalEntry, error)

	GetLines(ctx context.Context, entryID id.ID) ([]JournalLine, error)

	List(ctx context.Context, filter EntryFilter) (domain.ListResult[*JournalEntry], error)

	// LedgerTotals sums debit and credit amounts per ledger over a period.
	LedgerTotals(ctx context.Context, start, end time.Time) ([]LedgerTotal, error)
}

// EntryFilter for listing journal entries.
type EntryFilter struct {
	domain.ListFilter

	ReferenceKind *RefKind
	ReferenceID   *id.ID
	LedgerID      *id.ID
	DateFrom      *time.Time
	DateTo        *time.Time
}

// LedgerTotal is the period sum of one ledger's lines.
type LedgerTotal struct {
	LedgerID id.ID       `db:"ledger_id" json:"ledgerId"`
	Debits   types.Money `db:"debits" json:"debits"`
	Credits  types.Money `db:"credits" json:"credits"`
}
