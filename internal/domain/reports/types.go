// Package reports provides cross-document reporting read models.
package reports

import (
	"context"
	"time"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// Repository defines report queries. Implementations read several
// tables at once and never mutate anything.
type Repository interface {
	StockValuation(ctx context.Context, filter StockValuationFilter) (*StockValuationReport, error)
	DocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error)
	DocumentTypeSummary(ctx context.Context, filter DocumentJournalFilter) ([]DocumentTypeSummary, error)
}

// --- Stock Valuation ---

// StockValuationFilter defines the filter for the valuation report.
type StockValuationFilter struct {
	LocationIDs []id.ID
	ItemIDs     []id.ID

	// Drop rows with zero on-hand quantity.
	ExcludeZero bool
}

// StockValuationRow is one (location, item) cell valued at the item's
// current unit cost.
type StockValuationRow struct {
	LocationID   id.ID          `json:"locationId"`
	LocationName string         `json:"locationName"`
	ItemID       id.ID          `json:"itemId"`
	ItemCode     string         `json:"itemCode"`
	ItemName     string         `json:"itemName"`
	Unit         string         `json:"unit"`
	Quantity     types.Quantity `json:"quantity"`
	UnitCost     types.Money    `json:"unitCost"`
	Value        types.Money    `json:"value"`
}

// StockValuationReport is the full valuation report.
type StockValuationReport struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Items       []StockValuationRow `json:"items"`
	TotalItems  int                 `json:"totalItems"`
	TotalValue  types.Money         `json:"totalValue"`
}

// --- Document Journal ---

// Document type names accepted by DocumentJournalFilter.
const (
	DocTypePurchaseOrder = "purchase_order"
	DocTypeStockIssue    = "stock_issue"
	DocTypeWasteLog      = "waste_log"
)

// DocumentJournalFilter defines the filter for the document journal.
type DocumentJournalFilter struct {
	FromDate *time.Time
	ToDate   *time.Time

	// Empty means all types.
	DocumentTypes []string

	Posted *bool

	Limit  int
	Offset int
}

// DocumentJournalItem is one document row in the journal, regardless
// of its concrete type.
type DocumentJournalItem struct {
	ID           id.ID       `json:"id"`
	DocumentType string      `json:"documentType"`
	Number       string      `json:"number"`
	Date         time.Time   `json:"date"`
	Status       string      `json:"status"`
	Posted       bool        `json:"posted"`
	LocationID   *id.ID      `json:"locationId,omitempty"`
	Amount       types.Money `json:"amount"`
	Comment      string      `json:"comment,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DocumentJournal is the journal result.
type DocumentJournal struct {
	Items      []DocumentJournalItem `json:"items"`
	TotalCount int                   `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`

	// Filled on the first page only.
	Summary []DocumentTypeSummary `json:"summary,omitempty"`
}

// DocumentTypeSummary provides counts and amount totals per document
// type over the filter period.
type DocumentTypeSummary struct {
	DocumentType string      `json:"documentType"`
	Count        int         `json:"count"`
	PostedCount  int         `json:"postedCount"`
	TotalAmount  types.Money `json:"totalAmount"`
}
