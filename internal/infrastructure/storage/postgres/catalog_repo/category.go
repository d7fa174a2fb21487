package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"atithi/internal/core/id"
	"atithi/internal/domain/catalogs/category"
	"atithi/internal/infrastructure/storage/postgres"
)

const categoryTable = "cat_categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*category.Category](
			categoryTable,
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}

// CountItems returns the number of non-deleted items in the category.
func (r *CategoryRepo) CountItems(ctx context.Context, categoryID id.ID) (int, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(itemTable).
		Where(squirrel.Eq{"category_id": categoryID}).
		Where(squirrel.Eq{"deletion_mark": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}

	return count, nil
}
