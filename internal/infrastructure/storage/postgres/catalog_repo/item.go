package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain"
	"atithi/internal/domain/catalogs/item"
	"atithi/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo() *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*item.Item](
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

// ListByCategory retrieves items of one category.
func (r *ItemRepo) ListByCategory(ctx context.Context, categoryID id.ID, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	result := domain.ListResult[*item.Item]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"category_id": categoryID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var items []*item.Item
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return result, fmt.Errorf("list by category: %w", err)
	}
	result.Items = items
	result.TotalCount = int64(len(items))

	return result, nil
}

// UpdateCurrentStock writes the cached aggregate for the item.
// Called inside the same transaction that changed the stock ledger.
func (r *ItemRepo) UpdateCurrentStock(ctx context.Context, itemID id.ID, quantity types.Quantity) error {
	q := r.Builder().
		Update(itemTable).
		Set("current_stock", quantity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err = querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update current stock: %w", err)
	}

	return nil
}
