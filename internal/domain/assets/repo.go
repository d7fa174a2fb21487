package assets

import (
	"context"

	"atithi/internal/core/id"
	"atithi/internal/domain"
)

// Repository defines the interface for AssetInstance persistence.
type Repository interface {
	// Create inserts a new instance.
	Create(ctx context.Context, instance *AssetInstance) error

	// Update writes an instance with optimistic locking.
	Update(ctx context.Context, instance *AssetInstance) error

	// GetByID retrieves an instance.
	GetByID(ctx context.Context, id id.ID) (*AssetInstance, error)

	// GetForUpdate retrieves an instance with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*AssetInstance, error)

	// GetByTag retrieves an instance by asset tag.
	GetByTag(ctx context.Context, tag string) (*AssetInstance, error)

	// ExistsByTag reports whether a tag is taken.
	ExistsByTag(ctx context.Context, tag string) (bool, error)

	// ExistsBySerial reports whether (item, serial) is taken.
	ExistsBySerial(ctx context.Context, itemID id.ID, serial string) (bool, error)

	// List retrieves instances with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*AssetInstance], error)

	// ListByLocation retrieves instances currently at a location.
	ListByLocation(ctx context.Context, locationID id.ID) ([]*AssetInstance, error)

	// CountActiveByItem counts non-written-off instances of an item.
	CountActiveByItem(ctx context.Context, itemID id.ID) (int, error)
}

// ListFilter for asset instance queries.
type ListFilter struct {
	ItemID     *id.ID
	LocationID *id.ID
	Status     *Status
	Limit      int
	Offset     int
}
