// Package asset_repo provides the PostgreSQL asset registry repository.
package asset_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/assets"
	"atithi/internal/infrastructure/storage/postgres"
)

const assetTable = "reg_asset_instances"

// AssetRepo implements assets.Repository.
// TxManager is obtained from context per-request.
type AssetRepo struct {
	builder    squirrel.StatementBuilderType
	selectCols []string
}

// NewAssetRepo creates a new asset registry repository.
func NewAssetRepo() *AssetRepo {
	return &AssetRepo{
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		selectCols: postgres.ExtractDBColumns[assets.AssetInstance](),
	}
}

// getTxManager retrieves TxManager from context.
func (r *AssetRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

func (r *AssetRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(r.selectCols...).From(assetTable)
}

// Create inserts a new instance.
func (r *AssetRepo) Create(ctx context.Context, instance *assets.AssetInstance) error {
	data := postgres.StructToMap(instance)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.builder.Insert(assetTable).SetMap(filteredData).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err = querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}

	return nil
}

// Update writes an instance with optimistic locking.
func (r *AssetRepo) Update(ctx context.Context, instance *assets.AssetInstance) error {
	data := postgres.StructToMap(instance)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" || col == "created_by" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder.
		Update(assetTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": instance.ID}).
		Where(squirrel.Eq{"version": instance.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("asset", instance.ID)
	}

	instance.Version++
	return nil
}

// GetByID retrieves an instance.
func (r *AssetRepo) GetByID(ctx context.Context, instanceID id.ID) (*assets.AssetInstance, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": instanceID}), instanceID.String())
}

// GetForUpdate retrieves an instance with a row lock.
func (r *AssetRepo) GetForUpdate(ctx context.Context, instanceID id.ID) (*assets.AssetInstance, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": instanceID}).
		Suffix("FOR UPDATE")
	return r.getOne(ctx, q, instanceID.String())
}

// GetByTag retrieves an instance by asset tag.
func (r *AssetRepo) GetByTag(ctx context.Context, tag string) (*assets.AssetInstance, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"asset_tag": tag}), tag)
}

func (r *AssetRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*assets.AssetInstance, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var instance assets.AssetInstance
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &instance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("asset", key)
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &instance, nil
}

// ExistsByTag reports whether a tag is taken.
func (r *AssetRepo) ExistsByTag(ctx context.Context, tag string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"asset_tag": tag})
}

// ExistsBySerial reports whether (item, serial) is taken.
func (r *AssetRepo) ExistsBySerial(ctx context.Context, itemID id.ID, serial string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"item_id": itemID, "serial": serial})
}

func (r *AssetRepo) exists(ctx context.Context, cond squirrel.Eq) (bool, error) {
	q := r.builder.Select("1").From(assetTable).Where(cond).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists: %w", err)
	}

	return true, nil
}

// List retrieves instances with filtering.
func (r *AssetRepo) List(ctx context.Context, filter assets.ListFilter) (domain.ListResult[*assets.AssetInstance], error) {
	result := domain.ListResult[*assets.AssetInstance]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"current_location_id": *filter.LocationID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("asset_tag ASC")
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

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list assets: %w", err)
	}

	return result, nil
}

// ListByLocation retrieves instances currently at a location.
func (r *AssetRepo) ListByLocation(ctx context.Context, locationID id.ID) ([]*assets.AssetInstance, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"current_location_id": locationID}).
		OrderBy("asset_tag ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var instances []*assets.AssetInstance
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &instances, sql, args...); err != nil {
		return nil, fmt.Errorf("list by location: %w", err)
	}

	return instances, nil
}

// CountActiveByItem counts non-written-off instances of an item.
func (r *AssetRepo) CountActiveByItem(ctx context.Context, itemID id.ID) (int, error) {
	q := r.builder.Select("COUNT(*)").
		From(assetTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.NotEq{"status": assets.StatusWrittenOff})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active: %w", err)
	}

	return count, nil
}

// Ensure interface compliance.
var _ assets.Repository = (*AssetRepo)(nil)
