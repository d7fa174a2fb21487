// Package waste provides the WasteLog document.
// A waste log records spoilage, breakage, or disposal. It either names
// a tracked item (stock and cost effects apply) or carries a free-form
// description of prepared food that never entered stock.
package waste

import (
	"context"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// Waste posts atomically with its effects.
const StatusPosted = "posted"

// WasteLog represents one recorded waste event.
type WasteLog struct {
	entity.Document

	// ItemID names a tracked item. Exactly one of ItemID and
	// FoodDescription is set.
	ItemID *id.ID `db:"item_id" json:"itemId,omitempty"`

	// FoodDescription describes prepared food with no stock record
	FoodDescription *string `db:"food_description" json:"foodDescription,omitempty"`

	// LocationID is where the waste occurred
	LocationID id.ID `db:"location_id" json:"locationId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Reason (spoilage, breakage, expiry, preparation, other)
	Reason string `db:"reason" json:"reason"`

	// RecordedBy is the acting user
	RecordedBy string `db:"recorded_by" json:"recordedBy,omitempty"`

	// UnitCost captured at posting time for tracked items, zero otherwise
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`
}

// NewWasteLog creates a waste log for the movement service.
func NewWasteLog(locationID id.ID, quantity types.Quantity, reason, recordedBy string) *WasteLog {
	return &WasteLog{
		Document:   entity.NewDocument(StatusPosted),
		LocationID: locationID,
		Quantity:   quantity,
		Reason:     reason,
		RecordedBy: recordedBy,
	}
}

// ForItem targets a tracked item.
func (w *WasteLog) ForItem(itemID id.ID) *WasteLog {
	w.ItemID = &itemID
	return w
}

// ForFood targets untracked prepared food.
func (w *WasteLog) ForFood(description string) *WasteLog {
	w.FoodDescription = &description
	return w
}

// IsTracked reports whether the waste hits stock and cost.
func (w *WasteLog) IsTracked() bool {
	return w.ItemID != nil
}

// Validate implements entity.Validatable.
func (w *WasteLog) Validate(ctx context.Context) error {
	if err := w.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(w.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}

	hasItem := w.ItemID != nil && !id.IsNil(*w.ItemID)
	hasFood := w.FoodDescription != nil && *w.FoodDescription != ""
	if hasItem == hasFood {
		return apperror.NewValidation("exactly one of item or food description is required").
			WithDetail("field", "itemId")
	}

	if !w.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	if w.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}

	return nil
}

// GetDocumentType returns the document type name.
func (w *WasteLog) GetDocumentType() string {
	return "WasteLog"
}
