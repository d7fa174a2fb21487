// Package stockissue provides the StockIssue document.
// An issue records one movement out of a source location: consumption,
// an internal transfer, or an allocation to a guest room. Issues are
// created only through the movement service, atomically with their
// stock effects.
package stockissue

import (
	"context"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// Kind is the classification resolved from the destination.
type Kind string

const (
	KindConsumption Kind = "consumption" // destination absent; stock leaves the system
	KindTransfer    Kind = "transfer"    // destination is another store
	KindAllocation  Kind = "allocation"  // destination is a guest room
)

// Issues post atomically with their stock effects, so there is a single
// lifecycle state.
const StatusPosted = "posted"

// StockIssue represents one outbound movement with its lines.
type StockIssue struct {
	entity.Document

	// SourceLocationID is where the stock leaves from
	SourceLocationID id.ID `db:"source_location_id" json:"sourceLocationId"`

	// DestinationLocationID is nil for consumption
	DestinationLocationID *id.ID `db:"destination_location_id" json:"destinationLocationId,omitempty"`

	// Kind is resolved from the destination at posting time
	Kind Kind `db:"kind" json:"kind"`

	// IssuedBy is the acting user
	IssuedBy string `db:"issued_by" json:"issuedBy,omitempty"`

	// Notes is a free-form remark
	Notes string `db:"notes" json:"notes,omitempty"`

	// Table part: issued goods. Immutable once the issue posts.
	Lines []IssueLine `db:"-" json:"lines"`
}

// IssueLine represents a line in the stock issue.
type IssueLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID   id.ID          `db:"item_id" json:"itemId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the resolved price: selling price for payable lines
	// with one set, unit cost otherwise
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// RentalPrice overrides the selling price for rentable items
	RentalPrice *types.Money `db:"rental_price" json:"rentalPrice,omitempty"`

	// IsPayable marks the line billable to the guest at checkout
	IsPayable bool `db:"is_payable" json:"isPayable"`

	// IsPaid flips when bill-payables posts the revenue entry
	IsPaid bool `db:"is_paid" json:"isPaid"`

	// Damage tracking for returns
	IsDamaged   bool    `db:"is_damaged" json:"isDamaged"`
	DamageNotes *string `db:"damage_notes" json:"damageNotes,omitempty"`
}

// NewStockIssue creates an issue document for the movement service.
func NewStockIssue(sourceID id.ID, destinationID *id.ID, issuedBy string) *StockIssue {
	return &StockIssue{
		Document:              entity.NewDocument(StatusPosted),
		SourceLocationID:      sourceID,
		DestinationLocationID: destinationID,
		IssuedBy:              issuedBy,
		Lines:                 make([]IssueLine, 0),
	}
}

// AddLine appends a line with its resolved price.
func (s *StockIssue) AddLine(itemID id.ID, quantity types.Quantity, unitPrice types.Money, payable bool, rentalPrice *types.Money) {
	s.Lines = append(s.Lines, IssueLine{
		LineID:      id.New(),
		LineNo:      len(s.Lines) + 1,
		ItemID:      itemID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		RentalPrice: rentalPrice,
		IsPayable:   payable,
	})
}

// Validate implements entity.Validatable.
func (s *StockIssue) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.SourceLocationID) {
		return apperror.NewValidation("source location is required").
			WithDetail("field", "sourceLocationId")
	}

	if s.DestinationLocationID != nil && *s.DestinationLocationID == s.SourceLocationID {
		return apperror.NewValidation("destination must differ from source").
			WithDetail("field", "destinationLocationId")
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// IsConsumption reports whether the issue removed stock from the system.
func (s *StockIssue) IsConsumption() bool {
	return s.Kind == KindConsumption
}

// GetDocumentType returns the document type name.
func (s *StockIssue) GetDocumentType() string {
	return "StockIssue"
}
