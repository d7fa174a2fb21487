package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"atithi/internal/core/apperror"
	"atithi/internal/domain/catalogs/location"
	"atithi/internal/infrastructure/storage/postgres"
)

const locationTable = "cat_locations"

// LocationRepo implements location.Repository.
type LocationRepo struct {
	*BaseCatalogRepo[*location.Location]
}

// NewLocationRepo creates a new location repository.
func NewLocationRepo() *LocationRepo {
	return &LocationRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*location.Location](
			locationTable,
			postgres.ExtractDBColumns[location.Location](),
			func() *location.Location { return &location.Location{} },
		),
	}
}

// FindByType retrieves active locations of one type.
func (r *LocationRepo) FindByType(ctx context.Context, locType location.LocationType) ([]*location.Location, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"type": locType}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var locations []*location.Location
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &locations, sql, args...); err != nil {
		return nil, fmt.Errorf("find by type: %w", err)
	}

	return locations, nil
}

// GetCentralWarehouse retrieves the central warehouse.
func (r *LocationRepo) GetCentralWarehouse(ctx context.Context) (*location.Location, error) {
	return r.findSingleton(ctx, location.TypeCentralWarehouse)
}

// GetLaundryQueue retrieves the laundry queue location.
func (r *LocationRepo) GetLaundryQueue(ctx context.Context) (*location.Location, error) {
	return r.findSingleton(ctx, location.TypeLaundryQueue)
}

func (r *LocationRepo) findSingleton(ctx context.Context, locType location.LocationType) (*location.Location, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"type": locType}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	loc, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("location", string(locType))
		}
		return nil, err
	}
	return loc, nil
}
