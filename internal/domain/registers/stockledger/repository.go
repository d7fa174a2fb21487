// Package stockledger provides the stock accumulation register.
package stockledger

import (
	"context"
	"time"

	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// LevelKey identifies one (location, item) balance dimension.
type LevelKey struct {
	LocationID id.ID
	ItemID     id.ID
}

// Repository defines operations for the stock ledger register.
type Repository interface {
	// Transaction operations

	// CreateTransactions batch inserts ledger rows (used during posting)
	CreateTransactions(ctx context.Context, txns []entity.StockTransaction) error

	// DeleteTransactionsByRecorder removes all rows for a document version
	// Used during unposting or re-posting
	DeleteTransactionsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error

	// GetTransactionsByRecorder retrieves all rows for a document
	GetTransactionsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockTransaction, error)

	// Level operations

	// GetLevel returns current on-hand quantity for location+item
	GetLevel(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error)

	// GetLevelForUpdate returns level with row lock for stock control
	GetLevelForUpdate(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error)

	// LockLevels acquires row locks for all keys in ascending (location, item)
	// order, creating zero rows for missing dimensions.
	LockLevels(ctx context.Context, keys []LevelKey) error

	// SyncLevels recomputes the cached level for each key as the SUM of its
	// ledger rows. Must run inside the transaction that appended the rows.
	SyncLevels(ctx context.Context, keys []LevelKey) error

	// GetLevelsByLocation returns levels for a location
	GetLevelsByLocation(ctx context.Context, locationID id.ID, filter LevelFilter) ([]entity.StockLevel, error)

	// GetLevelsByItem returns levels across all locations for an item
	GetLevelsByItem(ctx context.Context, itemID id.ID) ([]entity.StockLevel, error)

	// ListLevelKeysByItem returns every level dimension for an item,
	// including zero rows. Used by the rebuild check.
	ListLevelKeysByItem(ctx context.Context, itemID id.ID) ([]LevelKey, error)

	// GetLevelAtDate calculates on-hand quantity as of a specific date (for reports)
	GetLevelAtDate(ctx context.Context, locationID, itemID id.ID, date time.Time) (types.Quantity, error)

	// GetLastTransferSource returns the counter location of the most recent
	// transfer_in row for location+item. Used to send returned goods back
	// where they came from.
	GetLastTransferSource(ctx context.Context, locationID, itemID id.ID) (id.ID, error)

	// Reporting

	// GetTransactionHistory returns ledger history for an item
	GetTransactionHistory(ctx context.Context, itemID id.ID, filter TransactionFilter) ([]entity.StockTransaction, error)

	// GetTurnover calculates receipt and expense totals for period
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)
}

// LevelFilter for filtering level queries.
type LevelFilter struct {
	ItemIDs     []id.ID
	ExcludeZero bool
	MinQuantity *types.Quantity
	MaxQuantity *types.Quantity
}

// TransactionFilter for filtering ledger history.
type TransactionFilter struct {
	LocationID *id.ID
	Kind       *entity.TxnKind
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	LocationID *id.ID
	ItemID     *id.ID
	FromDate   time.Time
	ToDate     time.Time
}

// Turnover represents receipt/expense totals.
type Turnover struct {
	LocationID     id.ID          `json:"locationId,omitempty"`
	ItemID         id.ID          `json:"itemId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}
