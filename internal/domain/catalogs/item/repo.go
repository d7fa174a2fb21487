package item

import (
	"context"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetForUpdate retrieves the item with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Item, error)

	// ListByCategory retrieves items of one category.
	ListByCategory(ctx context.Context, categoryID id.ID, filter domain.ListFilter) (domain.ListResult[*Item], error)

	// UpdateCurrentStock writes the cached aggregate for the item.
	UpdateCurrentStock(ctx context.Context, itemID id.ID, quantity types.Quantity) error
}
