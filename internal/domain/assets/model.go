// Package assets provides the asset registry: per-instance tracking for
// items flagged as fixed assets (asset tag, serial, current location,
// status, laundry cycles).
package assets

import (
	"context"
	"fmt"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
)

// Status defines the asset instance lifecycle state.
type Status string

const (
	StatusActive      Status = "active"
	StatusUnderRepair Status = "under_repair"
	StatusWrittenOff  Status = "written_off" // terminal
)

// AssetInstance is one physical unit of a fixed-asset item.
// Instance tracking runs parallel to quantity tracking: the item keeps a
// stock level row for aggregate counts while each unit carries its own tag.
type AssetInstance struct {
	entity.BaseDocument

	// AssetTag is the globally unique physical tag (AST-<locCode>-NNN)
	AssetTag string `db:"asset_tag" json:"assetTag"`

	// ItemID is the catalog item this instance belongs to
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Serial is the manufacturer serial; unique per item when present
	Serial *string `db:"serial" json:"serial,omitempty"`

	// CurrentLocationID is where the instance sits now.
	// Non-null while the instance is active.
	CurrentLocationID *id.ID `db:"current_location_id" json:"currentLocationId,omitempty"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// LaundryCycles counts completed laundry round trips.
	// Orthogonal to status; only meaningful for laundry-tracked items.
	LaundryCycles int `db:"laundry_cycles" json:"laundryCycles"`

	// RetirementReason records why the instance was written off
	RetirementReason *string `db:"retirement_reason" json:"retirementReason,omitempty"`
}

// NewAssetInstance creates an active instance at a location.
func NewAssetInstance(itemID id.ID, locationID id.ID) *AssetInstance {
	loc := locationID
	return &AssetInstance{
		BaseDocument:      entity.NewBaseDocument(),
		ItemID:            itemID,
		CurrentLocationID: &loc,
		Status:            StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (a *AssetInstance) Validate(ctx context.Context) error {
	if id.IsNil(a.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}

	switch a.Status {
	case StatusActive, StatusUnderRepair, StatusWrittenOff:
	default:
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(a.Status))
	}

	// Active instances always have a location.
	if a.Status == StatusActive && (a.CurrentLocationID == nil || id.IsNil(*a.CurrentLocationID)) {
		return apperror.NewValidation("active instance requires a location").
			WithDetail("field", "currentLocationId")
	}

	return nil
}

// CanMove reports whether the instance may be relocated.
func (a *AssetInstance) CanMove() bool {
	return a.Status == StatusActive
}

// transition applies a status change, rejecting illegal edges.
// written_off is terminal; repair states toggle with active only.
func (a *AssetInstance) transition(to Status, action string) error {
	allowed := false
	switch to {
	case StatusUnderRepair:
		allowed = a.Status == StatusActive
	case StatusActive:
		allowed = a.Status == StatusUnderRepair
	case StatusWrittenOff:
		allowed = a.Status == StatusActive || a.Status == StatusUnderRepair
	}

	if !allowed {
		return apperror.NewStateConflict("asset", a.ID.String(), string(a.Status), action)
	}

	a.Status = to
	return nil
}

// MarkUnderRepair moves an active instance into repair.
func (a *AssetInstance) MarkUnderRepair() error {
	return a.transition(StatusUnderRepair, "mark under repair")
}

// MarkRepaired returns an instance from repair to service.
func (a *AssetInstance) MarkRepaired() error {
	return a.transition(StatusActive, "mark repaired")
}

// Retire writes the instance off. Terminal.
func (a *AssetInstance) Retire(reason string) error {
	if err := a.transition(StatusWrittenOff, "retire"); err != nil {
		return err
	}
	a.RetirementReason = &reason
	a.CurrentLocationID = nil
	return nil
}

// AssertAt fails unless the instance currently sits at the expected location.
func (a *AssetInstance) AssertAt(expected id.ID) error {
	actual := ""
	if a.CurrentLocationID != nil {
		actual = a.CurrentLocationID.String()
	}
	if a.CurrentLocationID == nil || *a.CurrentLocationID != expected {
		return apperror.NewAssetNotAtSource(a.ID.String(), expected.String(), actual)
	}
	return nil
}

// MoveTo relocates the instance.
func (a *AssetInstance) MoveTo(destination id.ID) error {
	if !a.CanMove() {
		return apperror.NewStateConflict("asset", a.ID.String(), string(a.Status), "move")
	}
	dest := destination
	a.CurrentLocationID = &dest
	return nil
}

// String implements fmt.Stringer for log output.
func (a *AssetInstance) String() string {
	return fmt.Sprintf("%s (%s)", a.AssetTag, a.Status)
}
