package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"atithi/internal/domain"
	"atithi/internal/domain/documents/waste"
	"atithi/internal/infrastructure/storage/postgres"
)

const wasteLogsTable = "doc_waste_logs"

// WasteLogRepo implements waste.Repository.
type WasteLogRepo struct {
	*BaseDocumentRepo[*waste.WasteLog]
}

// NewWasteLogRepo creates a new waste log repository.
func NewWasteLogRepo() *WasteLogRepo {
	return &WasteLogRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			wasteLogsTable,
			postgres.ExtractDBColumns[waste.WasteLog](),
			func() *waste.WasteLog { return &waste.WasteLog{} },
		),
	}
}

var _ waste.Repository = (*WasteLogRepo)(nil)

// List retrieves waste logs with filtering.
func (r *WasteLogRepo) List(ctx context.Context, filter waste.ListFilter) (domain.ListResult[*waste.WasteLog], error) {
	result := domain.ListResult[*waste.WasteLog]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}

	if filter.Reason != nil {
		q = q.Where(squirrel.Eq{"reason": *filter.Reason})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"food_description": searchPattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

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
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
