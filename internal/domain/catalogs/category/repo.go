package category

import (
	"context"

	"atithi/internal/core/id"
	"atithi/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]

	// CountItems returns the number of non-deleted items in the category.
	CountItems(ctx context.Context, categoryID id.ID) (int, error)
}
