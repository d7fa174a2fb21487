// Package entity provides core domain entities.
package entity

import (
	"time"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// RecordType defines movement direction for accumulation registers.
type RecordType string

const (
	// RecordTypeReceipt increases balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases balance
	RecordTypeExpense RecordType = "expense"
)

// TxnKind classifies stock ledger transactions by business cause.
type TxnKind string

const (
	TxnKindIn          TxnKind = "in"           // goods received from a vendor
	TxnKindOut         TxnKind = "out"          // consumption issue
	TxnKindTransferOut TxnKind = "transfer_out" // leg 1 of an internal transfer
	TxnKindTransferIn  TxnKind = "transfer_in"  // leg 2 of an internal transfer
	TxnKindWaste       TxnKind = "waste"        // spoilage, breakage, expiry
	TxnKindAdjustment  TxnKind = "adjustment"   // manual correction, either sign
)

// RecordType maps the business kind onto the register direction.
// Adjustments carry their own direction and must set it explicitly.
func (k TxnKind) RecordType() RecordType {
	switch k {
	case TxnKindIn, TxnKindTransferIn:
		return RecordTypeReceipt
	default:
		return RecordTypeExpense
	}
}

// IsTransfer reports whether the kind is one leg of an internal transfer.
func (k TxnKind) IsTransfer() bool {
	return k == TxnKindTransferOut || k == TxnKindTransferIn
}

// Valid reports whether the kind is one of the known values.
func (k TxnKind) Valid() bool {
	switch k {
	case TxnKindIn, TxnKindOut, TxnKindTransferOut, TxnKindTransferIn, TxnKindWaste, TxnKindAdjustment:
		return true
	}
	return false
}

// MovementBase contains common fields for all register movements.
// Movements are immutable - they are never updated, only deleted and recreated.
type MovementBase struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "PurchaseOrder", "StockIssue")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// RecorderVersion tracks which posting iteration created this movement
	// Allows efficient cleanup: DELETE WHERE recorder_id = X AND recorder_version < Y
	RecorderVersion int `db:"recorder_version" json:"recorderVersion"`

	// Period is the business date for the movement (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a new movement base with generated LineID.
func NewMovementBase(recorderID id.ID, recorderType string, recorderVersion int, period time.Time, recordType RecordType) MovementBase {
	return MovementBase{
		LineID:          id.New(),
		RecorderID:      recorderID,
		RecorderType:    recorderType,
		RecorderVersion: recorderVersion,
		Period:          period,
		RecordType:      recordType,
		CreatedAt:       time.Now().UTC(),
	}
}

// StockTransaction represents a movement in the stock ledger register.
// Quantity is always positive; direction comes from RecordType.
type StockTransaction struct {
	MovementBase

	// Dimensions
	LocationID id.ID `db:"location_id" json:"locationId"`
	ItemID     id.ID `db:"item_id" json:"itemId"`

	// Kind classifies the movement; the two legs of a transfer share
	// the same recorder and reference each other via CounterLocationID.
	Kind TxnKind `db:"kind" json:"kind"`

	// CounterLocationID is the opposite location for transfer legs (nullable)
	CounterLocationID *id.ID `db:"counter_location_id" json:"counterLocationId,omitempty"`

	// Resources
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// NewStockTransaction creates a new stock ledger transaction.
func NewStockTransaction(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	period time.Time,
	kind TxnKind,
	locationID, itemID id.ID,
	quantity types.Quantity,
) StockTransaction {
	return StockTransaction{
		MovementBase: NewMovementBase(recorderID, recorderType, recorderVersion, period, kind.RecordType()),
		LocationID:   locationID,
		ItemID:       itemID,
		Kind:         kind,
		Quantity:     quantity,
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m *StockTransaction) SignedQuantity() types.Quantity {
	if m.RecordType == RecordTypeExpense {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockLevel represents current on-hand quantity per (location, item).
// This is a materialized/cached view for fast balance queries; the ledger
// rows remain the source of truth and the level is recomputed from their
// sum inside the same transaction that appends them.
type StockLevel struct {
	// Dimensions
	LocationID id.ID `db:"location_id" json:"locationId"`
	ItemID     id.ID `db:"item_id" json:"itemId"`

	// Balances
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Metadata
	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
