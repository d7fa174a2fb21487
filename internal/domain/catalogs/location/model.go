// Package location provides the Location catalog.
// Locations are the storage and service points stock moves between:
// warehouses, branch stores, kitchens, the laundry queue, and guest rooms.
package location

import (
	"context"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
)

// LocationType defines the kind of location.
type LocationType string

const (
	TypeCentralWarehouse LocationType = "central_warehouse" // the fallback return target
	TypeWarehouse        LocationType = "warehouse"
	TypeBranchStore      LocationType = "branch_store"
	TypeKitchen          LocationType = "kitchen"
	TypeLaundryQueue     LocationType = "laundry_queue"
	TypeGuestRoom        LocationType = "guest_room"
)

// Location represents a storage or service point.
type Location struct {
	entity.Catalog

	// Type defines the location category
	Type LocationType `db:"type" json:"type"`

	// Building is the physical building or wing
	Building *string `db:"building" json:"building,omitempty"`

	// Area is the room number or area label within the building
	Area *string `db:"area" json:"area,omitempty"`
}

// NewLocation creates a new Location with required fields.
func NewLocation(code, name string, locType LocationType) *Location {
	return &Location{
		Catalog: entity.NewCatalog(code, name),
		Type:    locType,
	}
}

// Validate implements entity.Validatable interface.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidLocationType(l.Type) {
		return apperror.NewValidation("invalid location type").
			WithDetail("field", "type").
			WithDetail("value", string(l.Type))
	}

	return nil
}

// IsWarehouse reports whether the location is a stock-holding warehouse.
// Return flows prefer warehouses over other location kinds.
func (l *Location) IsWarehouse() bool {
	return l.Type == TypeCentralWarehouse || l.Type == TypeWarehouse
}

// IsGuestRoom reports whether issues to this location are guest allocations.
func (l *Location) IsGuestRoom() bool {
	return l.Type == TypeGuestRoom
}

// IsCentralWarehouse reports whether this is the fallback return target.
func (l *Location) IsCentralWarehouse() bool {
	return l.Type == TypeCentralWarehouse
}

// CanHoldStock reports whether the location accepts movements.
func (l *Location) CanHoldStock() bool {
	return l.IsActive() && !l.IsFolder
}

func isValidLocationType(t LocationType) bool {
	switch t {
	case TypeCentralWarehouse, TypeWarehouse, TypeBranchStore,
		TypeKitchen, TypeLaundryQueue, TypeGuestRoom:
		return true
	}
	return false
}
