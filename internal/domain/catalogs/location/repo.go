package location

import (
	"context"

	"atithi/internal/domain"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	domain.CatalogRepository[*Location]

	// FindByType retrieves active locations of one type.
	FindByType(ctx context.Context, locType LocationType) ([]*Location, error)

	// GetCentralWarehouse retrieves the central warehouse.
	GetCentralWarehouse(ctx context.Context) (*Location, error)

	// GetLaundryQueue retrieves the laundry queue location.
	GetLaundryQueue(ctx context.Context) (*Location, error)
}
